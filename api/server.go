package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server is the read gateway in front of a tarn node. It serves pool and
// quote queries over REST, streams pool snapshots over websocket, and
// forwards authenticated pause/unpause transactions to the chain.
type Server struct {
	router  *gin.Engine
	cfg     *Config
	backend Backend
	auth    *AdminAuth
	hub     *PoolHub
	logger  log.Logger
}

// NewServer wires the gateway from configuration and a chain backend.
func NewServer(cfg *Config, backend Backend, logger log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Without a configured secret, admin sessions cannot survive a restart.
	// Generate one so the gateway still comes up, and tell the operator.
	if len(cfg.JWTSecret) == 0 {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
		logger.Warn("JWT secret generated randomly; set admin.jwt-secret to keep sessions across restarts",
			"secret_hex", hex.EncodeToString(secret))
	}

	s := &Server{
		cfg:     cfg,
		backend: backend,
		auth:    NewAdminAuth(cfg.JWTSecret, cfg.AdminUser, cfg.AdminPasswordHash, cfg.TokenTTL),
		hub:     NewPoolHub(logger),
		logger:  logger.With("component", "gateway"),
	}

	s.setupRouter()
	return s, nil
}

// setupRouter configures the gin router with all routes and middleware.
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Global middleware - ORDER MATTERS!
	// 1. Recovery (must be first to catch panics)
	s.router.Use(gin.Recovery())

	// 2. Security headers (set early)
	s.router.Use(SecurityHeadersMiddleware())

	// 3. Request ID (tracing and log correlation)
	s.router.Use(RequestIDMiddleware())

	// 4. Logging
	s.router.Use(LoggerMiddleware(s.logger))

	// 5. Rate limiting (before expensive operations)
	s.router.Use(RateLimitMiddleware(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))

	// 6. Tracing and metrics
	s.router.Use(TracingMiddleware())
	s.router.Use(MetricsMiddleware())

	s.registerRoutes()
}

// Handler returns the full HTTP handler, with CORS applied outside the gin
// router so preflight requests bypass route matching.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(s.router)
}

// Start runs the HTTP server until the context is canceled or a SIGINT or
// SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	go s.hub.Run()
	go s.runPoolStream(streamCtx)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:        s.Handler(),
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", "addr", srv.Addr, "node", s.cfg.NodeRPC)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case sig := <-quit:
		s.logger.Info("signal received", "signal", sig.String())
	}

	s.logger.Info("shutting down gateway")
	cancelStream()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway forced to shutdown: %w", err)
	}

	s.hub.Close()
	s.logger.Info("gateway stopped")
	return nil
}

// runPoolStream polls the backend and pushes snapshots to the hub whenever
// the pool set changes.
func (s *Server) runPoolStream(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PoolStreamInterval)
	defer ticker.Stop()

	var last []byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pools, err := s.backend.Pools(ctx)
			if err != nil {
				s.logger.Error("pool stream read failed", "err", err)
				continue
			}

			bz, err := json.Marshal(pools)
			if err != nil {
				continue
			}
			if bytes.Equal(bz, last) {
				continue
			}
			last = bz

			s.hub.BroadcastPools(pools)
		}
	}
}
