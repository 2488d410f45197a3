package mockserver

import (
	"crypto/tls"
	"fmt"

	pacttls "github.com/pactlab/pactmock/pkg/tls"
)

// buildTLSConfig generates a fresh self-signed certificate for one mock
// server instance and wraps it in a minimal server-side tls.Config. Each
// instance gets its own certificate; nothing is persisted or reused
// across instances.
func buildTLSConfig() (*tls.Config, error) {
	generated, err := pacttls.GenerateSelfSignedCert(pacttls.DefaultCertificateConfig())
	if err != nil {
		return nil, fmt.Errorf("generate self-signed certificate: %w", err)
	}
	cert, err := tls.X509KeyPair(generated.CertPEM, generated.KeyPEM)
	if err != nil {
		return nil, fmt.Errorf("build TLS certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
