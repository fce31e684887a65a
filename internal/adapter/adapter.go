// Package adapter holds helpers shared by the outbound adapters.
package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var ErrBadCA = errors.New("no certificate found in CA file")

// TLSFiles names PEM files. All fields are optional; an empty CA means the
// system roots, an empty cert/key pair means no client certificate.
type TLSFiles struct {
	CA   string `mapstructure:"ca_file"`
	Cert string `mapstructure:"cert_file"`
	Key  string `mapstructure:"key_file"`
}

func (f TLSFiles) Enabled() bool {
	return f.CA != "" || f.Cert != "" || f.Key != ""
}

// MakeTLSConfig returns nil when f is empty.
func MakeTLSConfig(f TLSFiles) (*tls.Config, error) {
	const op = "adapter.MakeTLSConfig"

	if !f.Enabled() {
		return nil, nil
	}

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if f.CA != "" {
		caCert, err := os.ReadFile(f.CA)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read CA certificate file: %w", op, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("%s: %s: %w", op, f.CA, ErrBadCA)
		}
		cfg.RootCAs = pool
	}

	if f.Cert != "" || f.Key != "" {
		clientCert, err := tls.LoadX509KeyPair(f.Cert, f.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.Certificates = []tls.Certificate{clientCert}
	}

	return cfg, nil
}
