package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/creativehub205/ladies-tailor-shop/api/middleware"
	"github.com/creativehub205/ladies-tailor-shop/api/routes"
	"github.com/creativehub205/ladies-tailor-shop/config"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	config     *config.Config
	httpServer *http.Server
	log        *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	config *config.Config,
	log *logrus.Logger,
	nrApp *newrelic.Application,
	svc service.Service,
) *Server {
	gin.SetMode(config.Server.Mode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	if config.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}
	if nrApp != nil {
		router.Use(middleware.NewRelicMiddleware(nrApp))
	}

	routes.SetupRoutes(router, svc, log, routes.Options{
		UploadDir:      config.Storage.UploadDir,
		MaxUploadMB:    config.Storage.MaxUploadMB,
		MetricsEnabled: config.Metrics.Enabled,
	})

	return &Server{
		router: router,
		config: config,
		log:    log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Server.Port),
			Handler:      router,
			ReadTimeout:  config.Server.ReadTimeout,
			WriteTimeout: config.Server.WriteTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Infof("Starting server on port %d", s.config.Server.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
