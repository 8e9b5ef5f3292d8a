package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sirosfoundation/go-http-factory/pkg/config"
	"github.com/sirosfoundation/go-http-factory/pkg/middleware"
)

var (
	// ErrKeyStorePathRequired is returned by New when TLS is requested without a keystore
	ErrKeyStorePathRequired = config.ErrKeyStorePathRequired
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = errors.New("server already started")
)

// Server is a configured, not yet listening HTTP or HTTPS server
type Server struct {
	connector Connector
	context   *Context
	logger    *zap.Logger
	timeouts  Timeouts

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
	err        error
}

// New builds a server from configuration. With TLS enabled the keystore
// path is mandatory and the TLS port is used, otherwise the plain port.
func New(cfg config.ServerConfig, opts ...Option) (*Server, error) {
	opts = append(configOptions(cfg), opts...)

	if cfg.TLS {
		if cfg.KeyStorePath == "" {
			return nil, ErrKeyStorePathRequired
		}
		return NewSecure(cfg.TLSPort, cfg.KeyStorePath, cfg.Host, cfg.KeyStorePassword,
			cfg.NeedClientAuth, cfg.SendServerVersion, opts...), nil
	}

	return NewPlain(cfg.Port, cfg.Host, cfg.SendServerVersion, opts...), nil
}

func configOptions(cfg config.ServerConfig) []Option {
	opts := []Option{WithTimeouts(Timeouts{
		Read:  seconds(cfg.ReadTimeout),
		Write: seconds(cfg.WriteTimeout),
		Idle:  seconds(cfg.IdleTimeout),
	})}
	if cfg.H2C {
		opts = append(opts, WithH2C())
	}
	return opts
}

// NewPlain builds an unencrypted server for host:port with an empty context
func NewPlain(port int, host string, sendServerVersion bool, opts ...Option) *Server {
	o := resolve(opts)

	return newServer(Connector{
		Host:              host,
		Port:              port,
		SendServerVersion: sendServerVersion,
		H2C:               o.h2c,
	}, o)
}

// NewSecure builds a TLS server for host:port. TLS 1.2 is always enabled,
// TLS 1.3 only when the runtime probe succeeds. The keystore is read by
// Start, so a missing or unreadable keystore is reported there.
func NewSecure(port int, keyStorePath, host, keyStorePassword string, needClientAuth, sendServerVersion bool, opts ...Option) *Server {
	o := resolve(opts)

	tlsOpts := newTLSOptions(keyStorePath, keyStorePassword, needClientAuth, safeProbe(o.tls13Probe))
	o.logger.Debug("Configured TLS connector",
		zap.Strings("protocols", tlsOpts.ProtocolNames()),
		zap.Int("cipher_suites", len(tlsOpts.CipherSuiteIDs())),
		zap.Bool("need_client_auth", needClientAuth))

	return newServer(Connector{
		Host:              host,
		Port:              port,
		SendServerVersion: sendServerVersion,
		TLS:               tlsOpts,
	}, o)
}

func resolve(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newServer(conn Connector, o options) *Server {
	base := []gin.HandlerFunc{
		gin.Recovery(),
		middleware.Logger(o.logger),
	}
	if conn.SendServerVersion {
		base = append(base, middleware.ServerVersion(Product, o.version))
	}
	if conn.Secure() {
		base = append(base, middleware.SecureRequest(SecureScheme))
	}
	if o.registerer != nil {
		m, err := middleware.NewMetrics(o.registerer)
		if err != nil {
			o.logger.Warn("Failed to register request metrics", zap.Error(err))
		} else {
			base = append(base, m.Handler())
		}
	}

	return &Server{
		connector: conn,
		context:   newContext(o.logger, base...),
		logger:    o.logger,
		timeouts:  o.timeouts,
		done:      make(chan struct{}),
	}
}

// Connector returns the listening endpoint description
func (s *Server) Connector() Connector {
	return s.connector
}

// Context returns the single request-handling context of the server
func (s *Server) Context() *Context {
	if s.context == nil {
		panic("httpserver: server without context handler")
	}
	return s.context
}

// AddRoute maps h to pathSpec on the server's context
func (s *Server) AddRoute(pathSpec string, h http.Handler) error {
	return s.Context().Handle(pathSpec, h)
}

// Start loads TLS material, binds the listener and serves in the background.
// Keystore and bind failures are returned here.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return ErrAlreadyStarted
	}

	engine := s.Context().build()
	srv := &http.Server{
		Handler:           engine,
		ReadTimeout:       s.timeouts.Read,
		WriteTimeout:      s.timeouts.Write,
		IdleTimeout:       s.timeouts.Idle,
		ReadHeaderTimeout: s.timeouts.ReadHeader,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}

	if s.connector.Secure() {
		ks, err := LoadKeyStore(s.connector.TLS.KeyStorePath, s.connector.TLS.KeyStorePassword)
		if err != nil {
			return fmt.Errorf("failed to start https connector: %w", err)
		}
		srv.TLSConfig = s.connector.TLS.Config(ks)
	} else if s.connector.H2C {
		srv.Handler = h2c.NewHandler(engine, &http2.Server{})
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.connector.Address())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.connector.Address(), err)
	}

	s.httpServer = srv
	s.listener = ln
	go s.serve(srv, ln)

	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener) {
	defer close(s.done)

	s.logger.Info("HTTP server listening",
		zap.String("address", ln.Addr().String()),
		zap.String("scheme", s.connector.Scheme()))

	var err error
	if s.connector.Secure() {
		// Certificates are already in srv.TLSConfig
		err = srv.ServeTLS(ln, "", "")
	} else {
		err = srv.Serve(ln)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("HTTP server error", zap.Error(err))
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}

// Shutdown gracefully stops a started server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, the configured one before
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.connector.Address()
}

// Done is closed when the serve loop exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that stopped the serve loop, if any
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
