// Package http is the thin HTTP adapter over the document and statistics
// services. Handlers fetch fully-populated records, call the engine and
// hand buffers back, no business logic lives here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     *zap.Logger
}

// NewServer creates a new HTTP server around the given handlers
func NewServer(config ServerConfig, handlers *Handlers, logger *zap.Logger) *Server {
	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		handlers: handlers,
		logger:   logger,
	}

	router.Use(gin.Recovery())
	router.Use(server.loggingMiddleware())
	server.setupRoutes()

	return server
}

// Router exposes the underlying engine for in-process request dispatch
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/cases", s.handlers.CreateCase)
		api.GET("/cases", s.handlers.ListCases)
		api.POST("/cases/:id/archive", s.handlers.ArchiveCase)

		api.GET("/cases/:id/synthesis", s.handlers.CaseSynthesis)
		api.GET("/cases/:id/documents/:filename", s.handlers.StoredDocument)
		api.GET("/cases/:id/members/:memberID/information-sheet", s.handlers.InformationSheet)
		api.GET("/beneficiaries/:id/conventions/:conventionID/document", s.handlers.FeeConvention)
		api.GET("/beneficiaries/:id/payments/:paymentID/receipt", s.handlers.PaymentReceipt)

		api.GET("/statistics", s.handlers.Statistics)

		api.POST("/templates/:kind", s.handlers.UploadTemplate)
		api.DELETE("/templates/:kind", s.handlers.RemoveTemplate)

		api.POST("/cases/:id/synthesis/attachments", s.handlers.StashSynthesis)
		api.GET("/attachments/:id", s.handlers.Attachment)
	}
}

// Start runs the server until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
