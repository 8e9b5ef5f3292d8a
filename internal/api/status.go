// Package api provides the HTTP handlers the server binary mounts on the
// embedded server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-http-factory/pkg/httpserver"
)

// StatusResponse is the response from the /status endpoint.
type StatusResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Scheme    string   `json:"scheme"`
	Protocols []string `json:"tls_protocols,omitempty"`
}

// Handlers serves status information about the running connector
type Handlers struct {
	connector httpserver.Connector
	version   string
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(connector httpserver.Connector, version string, logger *zap.Logger) *Handlers {
	return &Handlers{
		connector: connector,
		version:   version,
		logger:    logger.Named("handlers"),
	}
}

// Status handles the /status and /health endpoints
func (h *Handlers) Status(c *gin.Context) {
	resp := StatusResponse{
		Status:  "ok",
		Service: httpserver.Product,
		Version: h.version,
		Scheme:  h.connector.Scheme(),
	}
	if h.connector.TLS != nil {
		resp.Protocols = h.connector.TLS.ProtocolNames()
	}
	c.JSON(http.StatusOK, resp)
}

// Register mounts the status endpoints on srv
func (h *Handlers) Register(srv *httpserver.Server) error {
	for _, path := range []string{"/status", "/health"} {
		if err := srv.Context().HandleFunc(path, h.Status); err != nil {
			return err
		}
	}
	h.logger.Debug("Registered status endpoints")
	return nil
}
