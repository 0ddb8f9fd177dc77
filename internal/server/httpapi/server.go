// Package httpapi exposes the authentication core over HTTP/JSON: the
// register/login/verify endpoints, the bearer-token middleware chain and
// the admin gate.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rmachado/storeauth/internal/logging"
	"github.com/rmachado/storeauth/internal/metrics"
	"github.com/rmachado/storeauth/internal/server/users"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *users.Service
	jwtSecret []byte
	collector *metrics.Collector
}

func NewServer(address string, l logging.Logger, us *users.Service, secretKey string, collector *metrics.Collector) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
		collector: collector,
	}
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
