package middleware

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/gin-gonic/gin"
)

// Keys set on the gin context for requests received over TLS
const (
	KeySecure           = "secure"
	KeyCipherSuite      = "tls_cipher_suite"
	KeyTLSVersion       = "tls_version"
	KeyPeerCertificates = "tls_peer_certificates"
)

// SecureRequest marks requests that arrived over TLS. The request URL gets
// the configured scheme and the negotiated connection parameters are
// exposed on the context. Plain requests pass through untouched.
func SecureRequest(scheme string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := c.Request.TLS
		if state == nil {
			c.Next()
			return
		}

		c.Request.URL.Scheme = scheme
		c.Set(KeySecure, true)
		c.Set(KeyCipherSuite, tls.CipherSuiteName(state.CipherSuite))
		c.Set(KeyTLSVersion, tls.VersionName(state.Version))
		if len(state.PeerCertificates) > 0 {
			c.Set(KeyPeerCertificates, state.PeerCertificates)
		}

		c.Next()
	}
}

// PeerCertificates returns the verified client chain, if any
func PeerCertificates(c *gin.Context) []*x509.Certificate {
	v, ok := c.Get(KeyPeerCertificates)
	if !ok {
		return nil
	}
	certs, _ := v.([]*x509.Certificate)
	return certs
}

// IsSecure reports whether the request was received over TLS
func IsSecure(c *gin.Context) bool {
	return c.GetBool(KeySecure)
}
