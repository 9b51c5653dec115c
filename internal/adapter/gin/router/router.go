package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"employee-qbe-service/internal/adapter/gin/handler"
	"employee-qbe-service/internal/adapter/gin/middleware"
	grpcmiddleware "employee-qbe-service/internal/adapter/grpc/middleware"
	"employee-qbe-service/internal/metrics"
	"employee-qbe-service/pkg/logger"
)

// SwaggerFile is the OpenAPI document served under /swagger.
const SwaggerFile = "./api/swagger/employee.swagger.json"

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Options carries the optional pieces of the router.
type Options struct {
	RateLimiter  *grpcmiddleware.RateLimiter
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	HealthChecks map[string]HealthCheck
	ServiceName  string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(employeeHandler *handler.EmployeeHandler, opts Options, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(opts.Metrics))

	router.GET("/health", health(opts))

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	swaggerUI := httpSwagger.Handler(httpSwagger.URL("/swagger/employee.swagger.json"))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/employee.swagger.json" {
			c.File(SwaggerFile)
			return
		}
		swaggerUI(c.Writer, c.Request)
	})

	api := router.Group("/api", middleware.RateLimiter(opts.RateLimiter))
	{
		employees := api.Group("/employees")
		{
			employees.GET("/search", employeeHandler.SearchEmployees)
			employees.POST("/search/example", employeeHandler.FindByExample)
			employees.POST("/search/example/one", employeeHandler.FindOneByExample)
			employees.POST("/count", employeeHandler.CountByExample)
			employees.POST("/exists", employeeHandler.ExistsByExample)

			employees.POST("", employeeHandler.CreateEmployee)
			employees.GET("", employeeHandler.ListEmployees)
			employees.GET("/:id", employeeHandler.GetEmployee)
		}
	}

	return router
}

func health(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(opts.HealthChecks))
		for name, check := range opts.HealthChecks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"service": opts.ServiceName,
			"checks":  checks,
		})
	}
}
