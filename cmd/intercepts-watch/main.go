package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"intercepts/internal/config"
	"intercepts/internal/logging"
	"intercepts/internal/storage"
	"intercepts/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	log := logging.New(cfg.LogLevel, cfg.LogFormat, "intercepts-watch")
	svc := watcher.NewService(db, cfg, log)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
