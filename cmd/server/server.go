package main

import (
	"context"
	"time"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/infrastructure"
)

// Server wires the infrastructure, API module, and HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

// NewServer initializes every subsystem without starting any of them.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"courier initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"responder", cfg.Responder.Backend,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, cfg.ShutdownTimeoutDuration(), router, infra.Logger),
	}, nil
}

// Start registers lifecycle hooks and begins listening.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops the listener and closes subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
