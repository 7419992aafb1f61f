package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bankroll/chart"
	"bankroll/service"
	"bankroll/stats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// Services bundles what the HTTP API calls into
type Services struct {
	Sessions service.SessionService
	Players  service.PlayerService
	Stats    service.StatsService
}

// Server serves the JSON API, chart images and the change feed
type Server struct {
	http.Server
	sessions service.SessionService
	players  service.PlayerService
	stats    service.StatsService
	clock    stats.Clock
	tables   *chart.TableRenderer
	lines    *chart.LineChartRenderer
	feed     *ChangeFeed
	metrics  *httpMetrics
	registry *prometheus.Registry
}

// NewServer wires the routes and middleware. feed may be nil to disable /api/events.
func NewServer(addr string, svcs Services, clock stats.Clock, feed *ChangeFeed) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		sessions: svcs.Sessions,
		players:  svcs.Players,
		stats:    svcs.Stats,
		clock:    clock,
		tables:   chart.NewTableRenderer(),
		lines:    chart.NewLineChartRenderer(),
		feed:     feed,
		metrics:  newHTTPMetrics(registry),
		registry: registry,
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		// no WriteTimeout: the change feed holds responses open
	}

	return s
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	headers := NewHeadersMiddleware(DefaultHeadersConfig())

	var h http.Handler = s.routes()
	h = headers.Middleware(h)
	h = s.metrics.Middleware(h)
	h = accessLog(h)
	h = recovery(h)
	h = requestID(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.Addr).Info("HTTP server listening")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.feed != nil {
		s.feed.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Shutting down HTTP server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
