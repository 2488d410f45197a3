package mockserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

// defaultShutdownGrace bounds how long Shutdown waits for in-flight
// requests to drain before the listener is forced closed.
const defaultShutdownGrace = 30 * time.Second

// findFreePort finds a free loopback port starting at startPort, trying
// up to 100 ports before falling back to the OS-assigned ephemeral port.
func findFreePort(startPort int) int {
	for port := startPort; port < startPort+100; port++ {
		l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			_ = l.Close()
			return port
		}
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return startPort
	}
	defer func() { _ = l.Close() }()
	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return startPort
	}
	return addr.Port
}

// httpServer is the bound listener plus *http.Server backing one mock
// server instance. It carries no reference to the instance or registry
// that owns it.
type httpServer struct {
	srv      *http.Server
	listener net.Listener
	scheme   string
}

// startHTTPServer binds an ephemeral loopback listener (optionally
// wrapped in TLS) starting its scan at port 51200, and serves handler
// on a background goroutine. It returns once the listener is bound, so
// the caller can read its address immediately.
func startHTTPServer(handler http.Handler, useTLS bool) (*httpServer, error) {
	port := findFreePort(51200)
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind mock server listener: %w", err)
	}

	srv := &http.Server{Handler: handler}
	scheme := "http"

	if useTLS {
		tlsConfig, tlsErr := buildTLSConfig()
		if tlsErr != nil {
			_ = listener.Close()
			return nil, tlsErr
		}
		srv.TLSConfig = tlsConfig
		listener = tls.NewListener(listener, tlsConfig)
		scheme = "https"
	}

	ready := make(chan struct{})
	go func() {
		close(ready)
		_ = srv.Serve(listener)
	}()
	<-ready

	return &httpServer{srv: srv, listener: listener, scheme: scheme}, nil
}

func (s *httpServer) addr() string {
	return fmt.Sprintf("%s://%s", s.scheme, s.listener.Addr().String())
}

func (s *httpServer) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultShutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		_ = s.srv.Close()
		return err
	}
	return nil
}
