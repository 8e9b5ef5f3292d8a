package httpserver

import (
	"net"
	"strconv"
)

// Connector describes the listening endpoint of a Server
type Connector struct {
	Host              string
	Port              int
	SendServerVersion bool
	H2C               bool

	// TLS is nil for plain connectors
	TLS *TLSOptions
}

// Secure reports whether the connector terminates TLS
func (c Connector) Secure() bool {
	return c.TLS != nil
}

// Scheme returns the URL scheme served by the connector
func (c Connector) Scheme() string {
	if c.Secure() {
		return SecureScheme
	}
	return "http"
}

// Address returns host:port, an empty host binds all interfaces
func (c Connector) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
