// Package server wires the embedded server for the server binary.
//
// Architecture:
//   - httpserver.Server: one connector and one request-handling context
//   - RouteProvider: components implement this to contribute routes
//   - Manager: builds the server from configuration, attaches the CORS
//     filter and the status endpoints, registers providers and owns the
//     start/stop lifecycle
//
// Usage:
//
//	mgr := server.NewManager(cfg, logger, version, httpserver.WithMetrics(reg))
//	mgr.AddProvider(server.NewMetricsProvider(cfg.Metrics.Path, reg))
//	if err := mgr.Start(ctx); err != nil {
//	    return err
//	}
//	defer mgr.Shutdown(context.Background())
package server
