package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"ping-monitor/internal/models"
)

// Server handles web requests
type Server struct {
	db          models.Store
	summaries   models.SummaryProvider
	gatherer    prometheus.Gatherer
	port        int
	staticFiles fs.FS
	statsCache  *ttlcache.Cache[int, []models.Stats]
	httpServer  *http.Server
}

// Option customizes a Server
type Option func(*Server)

// WithStatsCacheTTL caches /api/stats responses for ttl; zero disables caching
func WithStatsCacheTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl <= 0 {
			s.statsCache = nil
			return
		}
		s.statsCache = ttlcache.New(
			ttlcache.WithTTL[int, []models.Stats](ttl),
			ttlcache.WithDisableTouchOnHit[int, []models.Stats](),
		)
	}
}

// WithGatherer serves /metrics from g instead of the default registry
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a new web server. staticFS must contain a static/ directory.
func New(db models.Store, summaries models.SummaryProvider, port int, staticFS fs.FS, opts ...Option) *Server {
	s := &Server{
		db:          db,
		summaries:   summaries,
		gatherer:    prometheus.DefaultGatherer,
		port:        port,
		staticFiles: staticFS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the request multiplexer
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/recent", s.handleRecent)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/outages", s.handleOutages)
	mux.HandleFunc("/api/heatmap", s.handleHeatmap)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Static files - serve embedded static/ directory as webroot
	if s.staticFiles != nil {
		if staticFS, err := fs.Sub(s.staticFiles, "static"); err == nil {
			mux.Handle("/", http.FileServer(http.FS(staticFS)))
		} else {
			log.Warnf("Static files unavailable: %v", err)
		}
	}

	return mux
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Web server starting on port %d", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the web server down
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
