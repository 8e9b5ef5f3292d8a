package httpserver

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// ErrEmptyKeyStore is returned when a keystore holds no key pair
var ErrEmptyKeyStore = errors.New("keystore contains no private key and certificate")

// KeyStore is the key material a TLS connector serves with
type KeyStore struct {
	// Certificate is the server key pair, leaf first
	Certificate tls.Certificate
}

// Certificates returns the parsed certificates of the keystore, leaf first
func (k *KeyStore) Certificates() []*x509.Certificate {
	certs := make([]*x509.Certificate, 0, len(k.Certificate.Certificate))
	for _, der := range k.Certificate.Certificate {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			continue
		}
		certs = append(certs, cert)
	}
	return certs
}

// LoadKeyStore reads a PEM bundle (certificates and private key in one file)
// or a PKCS#12 keystore, legacy (3DES/RC2) or PBES2/AES encrypted. The
// password is only used for PKCS#12.
func LoadKeyStore(path, password string) (*KeyStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	if bytes.Contains(data, []byte("-----BEGIN")) {
		return loadPEM(data)
	}
	return loadPKCS12(data, password)
}

func loadPEM(data []byte) (*KeyStore, error) {
	cert, err := tls.X509KeyPair(data, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PEM keystore: %w", err)
	}
	return &KeyStore{Certificate: cert}, nil
}

func loadPKCS12(data []byte, password string) (*KeyStore, error) {
	key, leaf, chain, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PKCS#12 keystore: %w", err)
	}
	if key == nil || leaf == nil {
		return nil, ErrEmptyKeyStore
	}

	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return &KeyStore{Certificate: cert}, nil
}
