package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/halalcheck/halalcheck/internal/api"
	"github.com/halalcheck/halalcheck/internal/config"
	"github.com/halalcheck/halalcheck/internal/infrastructure"
	"github.com/halalcheck/halalcheck/pkg/module"
)

// Server owns the infrastructure and the HTTP listener in front of it.
type Server struct {
	infra    *infrastructure.Infrastructure
	http     *http.Server
	logger   *slog.Logger
	drainFor time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := module.NewRouter()
	registerProbes(router, infra)
	router.Mount(apiModule)

	infra.Logger.Info("halalcheck initialized",
		"addr", cfg.Server.Addr(),
		"base_path", cfg.API.BasePath,
		"version", cfg.Version,
		"env", cfg.Env(),
	)

	return &Server{
		infra: infra,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
			WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		},
		logger:   infra.Logger.With("system", "http"),
		drainFor: cfg.Server.ShutdownTimeoutDuration(),
	}, nil
}

// Start launches the subsystems and the listener. It returns once the
// listener goroutine is running; readiness follows when every startup hook
// has finished.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	lc := s.infra.Lifecycle

	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("listener stopped", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.drainFor)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("drain incomplete", "error", err)
			return
		}
		s.logger.Info("listener closed")
	})

	go func() {
		lc.WaitForStartup()
		s.logger.Info("ready")
	}()
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.logger.Info("shutting down", "timeout", timeout)
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return err
	}
	s.logger.Info("stopped")
	return nil
}
