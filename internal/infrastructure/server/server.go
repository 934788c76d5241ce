package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/termhost/internal/api/http"
	"github.com/GriffinCanCode/termhost/internal/api/middleware"
	"github.com/GriffinCanCode/termhost/internal/api/ws"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/monitor"
	"github.com/GriffinCanCode/termhost/internal/providers/shell"
	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
)

const (
	streamPath      = "/stream"
	gzipMinSize     = 1024
	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	http     *http.Server
	sessions *terminal.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing termhost server",
		zap.String("addr", cfg.Addr()),
		zap.String("shell", cfg.Terminal.Shell),
	)

	metrics := monitoring.NewMetrics()

	sessions := terminal.NewManager(terminal.Config{
		Shell:            cfg.Terminal.Shell,
		Cols:             cfg.Terminal.Cols,
		Rows:             cfg.Terminal.Rows,
		SubscriberBuffer: cfg.Terminal.SubscriberBuffer,
	}, logger.Named("terminal")).WithMetrics(metrics)
	logger.Info("Session manager initialized", zap.String("shell", sessions.Shell()))

	runner := shell.NewRunner(logger.Named("runner")).
		WithMetrics(metrics).
		WithTimeout(cfg.Command.Timeout.Std())
	prober := shell.NewProber(logger.Named("prober"), cfg.Shells...)
	stats := monitor.NewProvider(logger.Named("monitor"))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsCfg := middleware.DefaultCORSConfig()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(corsCfg))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Register routes
	handlers := apihttp.NewHandlers(sessions, runner, prober, stats, metrics, logger.Logger)
	handlers.Register(router)

	wsHandler := ws.NewHandler(sessions, middleware.OriginChecker(corsCfg), logger.Named("ws")).WithMetrics(metrics)
	router.GET(streamPath, wsHandler.HandleConnection)

	aggregator := apihttp.NewMetricsAggregator(metrics, sessions, stats)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/metrics/json", aggregator.GetAggregatedMetrics)

	handler, err := compress(router)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		handler:  handler,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// compress gzips every response except the websocket upgrade, which must
// reach gin with an unwrapped, hijackable writer
func compress(next http.Handler) (http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, err
	}
	gz := wrap(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == streamPath {
			next.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	}), nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the session manager
func (s *Server) Sessions() *terminal.Manager {
	return s.sessions
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then closes every session and stream
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}
	s.sessions.Shutdown()

	// Sync logger before exit
	s.logger.Sync()
	return err
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
