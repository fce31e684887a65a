package httphandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const handlerTimeout = 5 * time.Second

// HTTPServer serves the local callback endpoints. The listener is bound in
// NewHTTPServer so a busy port fails before anything is started.
type HTTPServer struct {
	httpServer *http.Server
	ln         net.Listener
}

func NewHTTPServer(addr string, handler http.Handler) (HTTPServer, error) {
	const op = "NewHTTPServer"

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return HTTPServer{}, fmt.Errorf("%s: %w", op, err)
	}

	handler = http.TimeoutHandler(handler, handlerTimeout, "unavailable")
	s := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Second,
	}
	return HTTPServer{httpServer: s, ln: ln}, nil
}

// Addr is the bound address, useful when addr had port 0.
func (s HTTPServer) Addr() string {
	return s.ln.Addr().String()
}

// Run serves until Close and calls stopFn when serving ends.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("http server is listening", "addr", s.Addr())
	err := s.httpServer.Serve(s.ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("unexpected server shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
