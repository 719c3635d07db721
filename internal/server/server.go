// Package server is the HTTP adapter exposing the invoice API. It is a thin
// layer translating requests into repository and domain calls.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/auth"
	"github.com/toqasaad97/invoice/internal/document"
	"github.com/toqasaad97/invoice/internal/email"
	"github.com/toqasaad97/invoice/internal/repository"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server for the invoice API.
type Server struct {
	config     Config
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// New creates a new HTTP server wired to the given collaborators.
func New(
	cfg Config,
	invoices *repository.InvoiceRepository,
	authService *auth.Service,
	docs *document.Generator,
	mailer email.Sender,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		config: cfg,
		router: router,
		logger: logger,
	}

	router.Use(gin.Recovery())
	router.Use(s.loggingMiddleware())
	router.Use(corsMiddleware())

	handlers := NewHandlers(invoices, authService, docs, mailer, logger)
	RegisterRoutes(router, handlers, authService)

	return s
}

// RegisterRoutes mounts the API on the router. Split out so handler tests can
// run against a bare engine.
func RegisterRoutes(router *gin.Engine, handlers *Handlers, authService *auth.Service) {
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/invoicesLogin", handlers.Login)

	authed := api.Group("")
	authed.Use(authMiddleware(authService))
	{
		authed.GET("/listForms", handlers.ListForms)
		authed.GET("/displayForm/:id", handlers.DisplayForm)
		authed.GET("/clientInvoice/:id", handlers.ClientInvoice)
		authed.POST("/addForm", handlers.AddForm)
		authed.PUT("/editForm/:id", handlers.EditForm)
		authed.POST("/duplicateForm", handlers.DuplicateForm)
		authed.POST("/generateFormPdf", handlers.GenerateFormPDF)
		authed.POST("/generateVoucher/:id", handlers.GenerateVoucher)
		authed.POST("/sendInvoiceEmail/:id", handlers.SendInvoiceEmail)
	}
}

// authMiddleware requires a live bearer token on every request.
func authMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")

		var token string
		if len(header) > len(prefix) && header[:len(prefix)] == prefix {
			token = header[len(prefix):]
		}

		if _, err := authService.Verify(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "invalid or expired token",
			})
			return
		}

		c.Next()
	}
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers for browser clients.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}
