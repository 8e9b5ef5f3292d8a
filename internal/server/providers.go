package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sirosfoundation/go-http-factory/pkg/httpserver"
)

// MetricsProvider exposes a prometheus registry
type MetricsProvider struct {
	path     string
	gatherer prometheus.Gatherer
}

// NewMetricsProvider creates a provider serving gatherer at path
func NewMetricsProvider(path string, gatherer prometheus.Gatherer) *MetricsProvider {
	return &MetricsProvider{path: path, gatherer: gatherer}
}

func (p *MetricsProvider) Name() string { return "metrics" }

func (p *MetricsProvider) RegisterRoutes(srv *httpserver.Server) error {
	return srv.AddRoute(p.path, promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
}
