package httpserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Product is the name disclosed in the Server header
const Product = "go-http-factory"

// Timeouts of the underlying http.Server
type Timeouts struct {
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	ReadHeader time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Read:       15 * time.Second,
		Write:      15 * time.Second,
		Idle:       60 * time.Second,
		ReadHeader: 5 * time.Second,
	}
}

type options struct {
	logger     *zap.Logger
	timeouts   Timeouts
	registerer prometheus.Registerer
	h2c        bool
	version    string
	tls13Probe func() bool
}

func defaultOptions() options {
	return options{
		logger:     zap.NewNop(),
		timeouts:   DefaultTimeouts(),
		version:    "dev",
		tls13Probe: SupportsTLS13,
	}
}

// Option customizes a Server at construction
type Option func(*options)

// WithLogger sets the logger used for lifecycle and request logs
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeouts overrides the non-zero timeouts of t
func WithTimeouts(t Timeouts) Option {
	return func(o *options) {
		if t.Read > 0 {
			o.timeouts.Read = t.Read
		}
		if t.Write > 0 {
			o.timeouts.Write = t.Write
		}
		if t.Idle > 0 {
			o.timeouts.Idle = t.Idle
		}
		if t.ReadHeader > 0 {
			o.timeouts.ReadHeader = t.ReadHeader
		}
	}
}

// WithMetrics records request metrics into reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithH2C enables cleartext HTTP/2 on plain connectors
func WithH2C() Option {
	return func(o *options) {
		o.h2c = true
	}
}

// WithVersion sets the version disclosed in the Server header
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithTLS13Probe replaces the runtime check deciding whether TLS 1.3 is enabled
func WithTLS13Probe(probe func() bool) Option {
	return func(o *options) {
		o.tls13Probe = probe
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
