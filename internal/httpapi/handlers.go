package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/hub"
	"github.com/flaparena/backend/internal/score"
)

// CreateRoom makes an empty waiting room and returns its join code. The
// creator then connects over /ws and joins it; a room nobody ever joins is
// reclaimed by the idle timeout.
func CreateRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := h.Create()
		if rm == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			RoomID string `json:"roomId"`
		}{RoomID: rm.ID()})
	}
}

func Leaderboard(scores score.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := 10
		if raw := r.URL.Query().Get("n"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
				n = v
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		top, err := scores.Leaderboard(ctx, n)
		if err != nil {
			log.Error("leaderboard fetch failed", zap.Error(err))
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(top)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
