package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/hub"
	"github.com/flaparena/backend/internal/score"
	"github.com/flaparena/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, scores score.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h))
	r.Get("/leaderboard", Leaderboard(scores, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
