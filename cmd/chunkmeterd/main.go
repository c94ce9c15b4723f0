// Command chunkmeterd is the chunk-level password strength daemon.
//
// It loads the trained PCFG model and Monte-Carlo rank artifacts, then
// serves scoring queries over a local HTTP endpoint. Local artifact files
// are watched and hot-swapped when replaced. Queries arriving before the
// initial load completes are answered with an explicit not-ready result,
// never a misleading score.
//
// Usage:
//
//	chunkmeterd [-config chunkmeter.toml]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chunkmeter/internal/config"
	"chunkmeter/internal/logging"
	"chunkmeter/internal/meter"
	"chunkmeter/internal/server"
)

var (
	configPath = flag.String("config", "", "path to config file (toml, yaml, or json)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chunkmeterd: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chunkmeterd: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(&logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		Component: "chunkmeterd",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := meter.New()
	reloader := meter.NewReloader(cfg.Artifacts.Model, cfg.Artifacts.Rank, m, log)
	srv := server.New(cfg.Server, m, log)

	// Serve immediately; /score answers 503 until the initial load lands.
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	go func() {
		if err := reloader.Load(ctx); err != nil {
			// A model that fails to load or parse must never serve: exit
			// instead of running in permanent not-ready limbo.
			log.Error("initial artifact load failed", "error", err)
			errc <- err
			return
		}
		if cfg.Artifacts.Watch {
			if err := reloader.Watch(ctx); err != nil {
				log.Warn("artifact watch disabled", "error", err)
			}
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errc:
		if err != nil {
			_ = reloader.Close()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = reloader.Close()
}
