package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
)

// Server owns the infrastructure and the HTTP listener.
type Server struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	http   *http.Server
	logger *slog.Logger
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	router, err := newRouter(cfg, infra)
	if err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"persistence", cfg.Persistence,
	)

	return &Server{
		cfg:   cfg,
		infra: infra,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeoutDuration(),
			WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
		},
		logger: infra.Logger.With("system", "http"),
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then runs every
// shutdown hook within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	lc := s.infra.Lifecycle

	if err := s.infra.Start(); err != nil {
		return err
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		drain, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		if err := s.http.Shutdown(drain); err != nil {
			s.logger.Error("server shutdown error", "error", err)
			return
		}
		s.logger.Info("server shutdown complete")
	})

	go func() {
		lc.WaitForStartup()
		s.infra.Logger.Info("startup complete", "ready", lc.Ready(), "subsystems", lc.Status())
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.infra.Logger.Info("initiating shutdown")
		return lc.Shutdown(s.cfg.ShutdownTimeoutDuration())
	})

	return g.Wait()
}
