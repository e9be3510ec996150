package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/foxseedlab/monogatarun/external/config"
	"github.com/foxseedlab/monogatarun/external/httpapi"
	repositoryimpl "github.com/foxseedlab/monogatarun/external/repository"
	speechimpl "github.com/foxseedlab/monogatarun/external/speech"
	storyimpl "github.com/foxseedlab/monogatarun/external/story"
	"github.com/foxseedlab/monogatarun/internal/config"
	"github.com/foxseedlab/monogatarun/internal/session"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server")
	runServer(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	storyimpl.RegisterDI(injector)
	speechimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func runServer(injector do.Injector) {
	server, err := do.Invoke[*httpapi.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		if err := server.Run(); err != nil {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		slog.Info("shutdown: signal received", "signal", s.String())
	case <-done:
		slog.Info("shutdown: server stopped on its own")
	}

	manager.Shutdown()
	if err := server.Shutdown(); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	slog.Info("shutdown: complete")
}
