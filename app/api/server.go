package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkotenko/newsdeck/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, authSecret string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Identity resolution runs on every request; individual routes decide
	// whether an authenticated user is required.
	r.Use(OptionalAuth(authSecret))

	setupRoutes(r, handler, authSecret)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, authSecret string) {
	// Article endpoints
	r.GET("/articles", handler.GetArticles)
	r.GET("/articles/:id", handler.GetArticle)

	// Filter vocabulary endpoints
	r.GET("/categories", handler.GetCategories)
	r.GET("/sources", handler.GetSources)
	r.GET("/authors", handler.GetAuthors)

	// Preference endpoints (require an authenticated user)
	if authSecret != "" {
		preferences := r.Group("/preferences")
		preferences.Use(RequireAuth())
		{
			preferences.GET("", handler.GetPreferences)
			preferences.POST("", handler.SavePreferences)
		}
		slog.Info("Preference endpoints enabled with authentication")
	} else {
		slog.Info("Preference endpoints disabled (AUTH_SECRET not set)")
	}

	// Health endpoint
	r.GET("/health", handler.GetHealth)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"articles":   "/articles",
			"article":    "/articles/<id>",
			"categories": "/categories",
			"sources":    "/sources",
			"authors":    "/authors",
			"health":     "/health",
		}

		if authSecret != "" {
			endpoints["preferences"] = "/preferences (requires Authorization: Bearer <token>)"
		}

		c.JSON(200, gin.H{
			"service":     "Newsdeck",
			"version":     cfg.GetVersion(),
			"description": "News aggregation service with normalization, deduplication, and filtered search",
			"endpoints":   endpoints,
			"auth_status": map[string]interface{}{
				"enabled": authSecret != "",
				"header":  "Authorization: Bearer <token>",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
