package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/broadcast"
	"github.com/prodraft/draft-backend/internal/cleanup"
	"github.com/prodraft/draft-backend/internal/config"
	"github.com/prodraft/draft-backend/internal/draft"
	"github.com/prodraft/draft-backend/internal/httpapi"
	"github.com/prodraft/draft-backend/internal/store"
	"github.com/prodraft/draft-backend/internal/timer"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load(log)

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open store", zap.Error(err))
		}
		st = pg
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	hub := broadcast.NewHub(log)
	tm := timer.NewManager(timer.Config{
		LobbySeconds: cfg.LobbySeconds,
		TurnSeconds:  cfg.TurnSeconds,
		GraceDelay:   cfg.GraceDelay,
	}, hub, log)

	coord := draft.NewCoordinator(st, tm, hub, log, draft.WithDoneDelay(cfg.DoneDelay))
	tm.SetHandler(coord)

	ctx := context.Background()
	if err := coord.RehydrateAll(ctx); err != nil {
		log.Error("rehydrate", zap.Error(err))
	}

	janitor := cleanup.NewJanitor(st, tm, log, cfg.RoomTTL, cfg.CleanupInterval)
	go janitor.Run(ctx)

	handler := httpapi.SetupRoutes(coord, st, tm, hub, log)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
