package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/config"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/router"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level)

	// init storage
	st, err := openStore(cfg.Database)
	if err != nil {
		logger.Error("init storage", "err", err)
		os.Exit(1)
	}

	ch := cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	r := router.SetupRouter(cfg, st, ch, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", "addr", addr, "driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		logger.Error("run server", "err", err)
		os.Exit(1)
	}
}

func openStore(cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return store.NewMemory(), nil
	case "sqlite":
		return store.OpenSQLite(cfg.Path, cfg.LogMode)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
