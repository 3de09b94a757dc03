package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finparse/statement-parser/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", healthHandler(deps))

	// Initialize job handler
	jobHandler := handler.NewJobHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		statements := v1.Group("/statements")
		{
			// POST /api/v1/statements - Submit a statement for parsing
			statements.POST("", jobHandler.SubmitStatement)

			// GET /api/v1/statements/:job_id - Get parse job status
			statements.GET("/:job_id", jobHandler.GetStatement)
		}
	}

	return r
}

// healthHandler reports service liveness plus the state of the database and
// broker connections. Unconfigured checks are skipped.
func healthHandler(deps *handler.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{}

		if deps.DBHealth != nil {
			if err := deps.DBHealth.HealthCheck(c.Request.Context()); err != nil {
				checks["database"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				checks["database"] = "up"
			}
		}

		if deps.QueueHealth != nil {
			if deps.QueueHealth.IsConnected() {
				checks["rabbitmq"] = "up"
			} else {
				checks["rabbitmq"] = "down"
				status = http.StatusServiceUnavailable
			}
		}

		healthy := "healthy"
		if status != http.StatusOK {
			healthy = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":  healthy,
			"service": "statement-api-service",
			"checks":  checks,
		})
	}
}
