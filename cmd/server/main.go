package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-http-factory/internal/server"
	"github.com/sirosfoundation/go-http-factory/pkg/config"
	"github.com/sirosfoundation/go-http-factory/pkg/httpserver"
	"github.com/sirosfoundation/go-http-factory/pkg/logging"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	version    = "dev"
	buildTime  = "unknown"
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting HTTP server",
		zap.String("version", version),
		zap.String("build_time", buildTime),
	)

	if !cfg.Server.Enabled() {
		logger.Info("Both plain and TLS ports are disabled, nothing to serve")
		return
	}

	if cfg.Logging.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var opts []httpserver.Option
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, httpserver.WithMetrics(reg))
	}

	mgr := server.NewManager(cfg, logger, version, opts...)
	if reg != nil {
		mgr.AddProvider(server.NewMetricsProvider(cfg.Metrics.Path, reg))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = mgr.Start(ctx)
	cancel()
	if err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-mgr.Done():
		logger.Error("Server stopped unexpectedly", zap.Error(mgr.Server().Err()))
	}

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mgr.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
