package routes

import (
	"github.com/creativehub205/ladies-tailor-shop/api/handlers"
	"github.com/creativehub205/ladies-tailor-shop/api/middleware"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Options selects the optional endpoints
type Options struct {
	UploadDir      string
	MaxUploadMB    int64
	MetricsEnabled bool
}

// SetupRoutes sets up all the routes for the server
func SetupRoutes(r *gin.Engine, svc service.Service, log *logrus.Logger, opts Options) {
	health := handlers.NewHealthHandler(svc, log)
	r.GET("/", health.Root)
	r.GET("/test", health.Test)
	r.GET("/health", health.HealthCheck)

	if opts.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(svc, log)
	api.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.BearerAuth(svc, log))
	protected.POST("/logout", authHandler.Logout)

	customerHandler := handlers.NewCustomerHandler(svc, log)
	customers := protected.Group("/customers")
	{
		customers.POST("", customerHandler.CreateCustomer)
		customers.GET("", customerHandler.ListCustomers)
		customers.GET("/:id", customerHandler.GetCustomer)
		customers.PUT("/:id", customerHandler.UpdateCustomer)
		customers.DELETE("/:id", customerHandler.DeleteCustomer)
		customers.GET("/:id/orders", customerHandler.ListCustomerOrders)
	}

	orderHandler := handlers.NewOrderHandler(svc, log, opts.MaxUploadMB)
	orders := protected.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.DELETE("/:id", orderHandler.DeleteOrder)
		orders.POST("/:id/measurements", orderHandler.ReplaceMeasurements)
	}
}
