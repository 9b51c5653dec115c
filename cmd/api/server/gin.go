package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"employee-qbe-service/cmd/api/di"
	ginrouter "employee-qbe-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(c *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(c.GinHandler, ginrouter.Options{
		RateLimiter:  c.RateLimiter,
		Metrics:      c.Metrics,
		Gatherer:     c.Registry,
		HealthChecks: c.HealthChecks(),
		ServiceName:  c.Config.Logger.ServiceName,
	}, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))
	l.Info("Swagger UI available at", zap.String("url", "http://localhost"+ginAddr+"/swagger/index.html"))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
