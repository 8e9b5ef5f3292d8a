package server

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sirosfoundation/go-http-factory/internal/api"
	"github.com/sirosfoundation/go-http-factory/pkg/config"
	"github.com/sirosfoundation/go-http-factory/pkg/httpserver"
)

// ErrDisabled is returned when neither the plain nor the TLS port is configured
var ErrDisabled = errors.New("server is disabled: port and tls_port are both -1")

// RouteProvider allows components to register their routes on the
// server's context.
type RouteProvider interface {
	// RegisterRoutes adds this provider's routes to the server.
	RegisterRoutes(srv *httpserver.Server) error

	// Name returns the provider name for logging
	Name() string
}

// Manager builds and runs the embedded server
type Manager struct {
	cfg     *config.Config
	logger  *zap.Logger
	version string
	opts    []httpserver.Option

	providers []RouteProvider

	srv *httpserver.Server
}

// NewManager creates a new server manager
func NewManager(cfg *config.Config, logger *zap.Logger, version string, opts ...httpserver.Option) *Manager {
	return &Manager{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		opts:      opts,
		providers: make([]RouteProvider, 0),
	}
}

// AddProvider adds a RouteProvider to the manager.
// Call this before Build() or Start().
func (m *Manager) AddProvider(p RouteProvider) {
	m.providers = append(m.providers, p)
	m.logger.Debug("Added route provider", zap.String("name", p.Name()))
}

// Build creates the server, attaches CORS and registers all routes.
// It is called by Start when needed.
func (m *Manager) Build() (*httpserver.Server, error) {
	if m.srv != nil {
		return m.srv, nil
	}
	if !m.cfg.Server.Enabled() {
		return nil, ErrDisabled
	}

	opts := append([]httpserver.Option{
		httpserver.WithLogger(m.logger),
		httpserver.WithVersion(m.version),
	}, m.opts...)

	srv, err := httpserver.New(m.cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure server: %w", err)
	}

	if m.cfg.CORS.Enabled {
		if err := srv.Context().AddCORS(m.cfg.CORS.PathSpec); err != nil {
			return nil, fmt.Errorf("failed to attach CORS filter: %w", err)
		}
	}

	if err := api.NewHandlers(srv.Connector(), m.version, m.logger).Register(srv); err != nil {
		return nil, fmt.Errorf("failed to register status endpoints: %w", err)
	}

	for _, p := range m.providers {
		m.logger.Info("Registering routes", zap.String("provider", p.Name()))
		if err := p.RegisterRoutes(srv); err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
	}

	m.srv = srv
	return srv, nil
}

// Start builds the server if needed and starts it
func (m *Manager) Start(ctx context.Context) error {
	srv, err := m.Build()
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// Shutdown gracefully shuts down the server
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.srv == nil {
		return nil
	}
	return m.srv.Shutdown(ctx)
}

// Done is closed when the server stops serving. It is nil before Build.
func (m *Manager) Done() <-chan struct{} {
	if m.srv == nil {
		return nil
	}
	return m.srv.Done()
}

// Server returns the built server, nil before Build
func (m *Manager) Server() *httpserver.Server {
	return m.srv
}
