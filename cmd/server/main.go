package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/config"
	"github.com/flaparena/backend/internal/httpapi"
	"github.com/flaparena/backend/internal/hub"
	"github.com/flaparena/backend/internal/room"
	"github.com/flaparena/backend/internal/score"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var store score.Store
	if cfg.DatabaseURL != "" {
		pg, err := score.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("score store connect failed", zap.Error(err))
		}
		store = pg
	} else {
		logger.Warn("DATABASE_URL not set, best scores are in-memory only")
		store = score.NewMemoryStore()
	}

	rcfg := room.DefaultConfig()
	rcfg.MaxPlayers = cfg.MaxPlayersPerRoom

	ctx := context.Background()
	h := hub.NewHub(ctx, rcfg, store, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, store, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
