package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aescanero/sentiment/pkg/ports"
)

// Server represents the HTTP API server
type Server struct {
	router *gin.Engine
	server *http.Server
	logger *zap.Logger

	classifier          ports.Classifier
	model               string
	tokenConfigured     bool
	metrics             ports.MetricsCollector
	gatherer            prometheus.Gatherer
	eventBus            ports.EventBus
	eventBusName        string
	eventPublishTimeout time.Duration
}

// Config holds HTTP server configuration
type Config struct {
	Addr string

	// Classifier may be nil when TokenConfigured is false
	Classifier      ports.Classifier
	Model           string
	TokenConfigured bool

	Metrics  ports.MetricsCollector
	Gatherer prometheus.Gatherer

	// EventBus is optional; events are not published when nil
	EventBus            ports.EventBus
	EventBusName        string
	EventPublishTimeout time.Duration

	Logger *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(corsMiddleware())
	router.SetHTMLTemplate(loadTemplates())

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	publishTimeout := cfg.EventPublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = 2 * time.Second
	}

	s := &Server{
		router:              router,
		logger:              cfg.Logger,
		classifier:          cfg.Classifier,
		model:               cfg.Model,
		tokenConfigured:     cfg.TokenConfigured,
		metrics:             cfg.Metrics,
		gatherer:            gatherer,
		eventBus:            cfg.EventBus,
		eventBusName:        cfg.EventBusName,
		eventPublishTimeout: publishTimeout,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.StaticFS("/static", http.FS(staticFS()))

	s.router.POST("/sentiment", s.handleSentiment)

	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// SetupWebSocket adds the classification event stream to the server
func (s *Server) SetupWebSocket(handler interface{ HandleEventStream(*gin.Context) }) {
	s.router.GET("/api/v1/events/ws", handler.HandleEventStream)
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
