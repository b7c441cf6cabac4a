// Package httpapi exposes the operations over HTTP. It is a thin boundary:
// it binds request DTOs, calls the services, and serializes either the typed
// result or the tagged error with its kind mapped to a status code.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
)

// Server wires the operation routes onto a gin engine.
type Server struct {
	address   string
	engine    *gin.Engine
	auth      *services.AuthService
	employees *services.EmployeeService
	jwtSecret []byte
	logger    logging.Logger
}

// NewServer builds the router with all operation endpoints registered.
func NewServer(cfg *config.Config, l logging.Logger, as *services.AuthService, es *services.EmployeeService) *Server {
	s := &Server{
		address:   cfg.EndpointAddr,
		auth:      as,
		employees: es,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    l.With("module", "http_server"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("/employees", s.requireAuth)
	protected.GET("", s.handleListEmployees)
	protected.GET("/search", s.handleSearchEmployees)
	protected.GET("/:id", s.handleGetEmployee)
	protected.POST("", s.handleAddEmployee)
	protected.PUT("/:id", s.handleUpdateEmployee)
	protected.DELETE("/:id", s.handleDeleteEmployee)

	s.engine = engine
	return s
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
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
