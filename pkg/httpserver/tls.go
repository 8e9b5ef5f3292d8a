package httpserver

import (
	"crypto/tls"
	"crypto/x509"
)

// SecureScheme is the scheme reported for requests on a TLS connector
const SecureScheme = "https"

// CipherSuitePolicy is the TLS 1.2 cipher-suite allow-list in priority order.
// crypto/tls has no DHE key exchange, so the DHE entries are never offered.
var CipherSuitePolicy = []string{
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384",
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384",
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256",
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256",
	"TLS_DHE_RSA_WITH_AES_256_GCM_SHA384",
	"TLS_DHE_RSA_WITH_AES_128_GCM_SHA256",
}

// TLSOptions is the TLS side of a secure connector
type TLSOptions struct {
	KeyStorePath     string
	KeyStorePassword string // empty for passwordless keystores
	NeedClientAuth   bool

	// Protocols are the enabled versions, lowest first
	Protocols    []uint16
	CipherSuites []string
}

func newTLSOptions(keyStorePath, keyStorePassword string, needClientAuth, tls13 bool) *TLSOptions {
	protocols := []uint16{tls.VersionTLS12}
	if tls13 {
		protocols = append(protocols, tls.VersionTLS13)
	}

	return &TLSOptions{
		KeyStorePath:     keyStorePath,
		KeyStorePassword: keyStorePassword,
		NeedClientAuth:   needClientAuth,
		Protocols:        protocols,
		CipherSuites:     append([]string(nil), CipherSuitePolicy...),
	}
}

// ProtocolNames returns the enabled protocol versions as names
func (o *TLSOptions) ProtocolNames() []string {
	names := make([]string, 0, len(o.Protocols))
	for _, p := range o.Protocols {
		names = append(names, tls.VersionName(p))
	}
	return names
}

// CipherSuiteIDs maps the allow-list to the suites crypto/tls implements,
// keeping the policy order
func (o *TLSOptions) CipherSuiteIDs() []uint16 {
	known := make(map[string]uint16)
	for _, s := range tls.CipherSuites() {
		known[s.Name] = s.ID
	}

	ids := make([]uint16, 0, len(o.CipherSuites))
	for _, name := range o.CipherSuites {
		if id, ok := known[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Config builds the server tls.Config for the given keystore. When client
// authentication is required the keystore certificates are trusted as
// client CAs.
func (o *TLSOptions) Config(ks *KeyStore) *tls.Config {
	cfg := &tls.Config{
		Certificates:  []tls.Certificate{ks.Certificate},
		MinVersion:    o.Protocols[0],
		MaxVersion:    o.Protocols[len(o.Protocols)-1],
		CipherSuites:  o.CipherSuiteIDs(),
		Renegotiation: tls.RenegotiateNever,
	}

	if o.NeedClientAuth {
		pool := x509.NewCertPool()
		for _, cert := range ks.Certificates() {
			pool.AddCert(cert)
		}
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
		cfg.ClientCAs = pool
	}

	return cfg
}
