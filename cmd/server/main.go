package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/windowrun/windowrun/internal/config"
	"github.com/windowrun/windowrun/internal/server"
	serverStore "github.com/windowrun/windowrun/internal/server/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var st server.Store

	switch cfg.DB.Driver {
	case "postgres":
		pg, err := serverStore.Open(cfg.ConnectionString())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		if err := pg.EnsureSchema(context.Background()); err != nil {
			slog.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}

		st = pg
	case "memory":
		slog.Warn("running on the in-memory store, data will not survive restarts")

		st = serverStore.NewMemory()
	default:
		slog.Error("unknown DB_DRIVER", "driver", cfg.DB.Driver)
		os.Exit(1)
	}

	router := server.NewRouter(server.NewHandler(st, slog.Default()))

	port := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
