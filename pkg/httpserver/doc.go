// Package httpserver builds embeddable HTTP and HTTPS servers.
//
// A Server owns exactly one Connector (the listening endpoint and its
// protocol settings) and exactly one Context (the request-handling unit
// that routes and filters are attached to). Constructors only record
// configuration; nothing is read from disk and no socket is bound until
// Start is called.
//
//	srv, err := httpserver.New(cfg.Server, httpserver.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	_ = srv.Context().AddCORS(httpserver.DefaultPathSpec)
//	_ = srv.AddRoute("/api/*", apiHandler)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Shutdown(context.Background())
//
// Path specs follow servlet mapping rules: "/exact", "/prefix/*",
// "*.ext" and the default mappings "/" and "/*". Exact mappings win over
// the longest matching prefix, which wins over extension mappings, which
// win over the default mapping.
package httpserver
