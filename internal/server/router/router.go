package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/server/handlers"
)

// Options tunes the cross-cutting middlewares.
type Options struct {
	AllowedOrigins []string
	RateLimit      string
}

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, opts Options, logger *zap.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	if opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit %q: %w", opts.RateLimit, err)
		}
		api.Use(mgin.NewMiddleware(limiter.New(memory.NewStore(), rate)))
	}
	api.Use(handlers.Session())

	wines := api.Group("/wines")
	wines.GET("", handler.ListWines)
	wines.POST("", handler.CreateWine)
	wines.PUT("/:id", handler.UpdateWine)
	wines.DELETE("/:id", handler.DeleteWine)
	wines.PATCH("/:id/thresholds", handler.UpdateThresholds)
	wines.POST("/:id/adjust", handler.AdjustStock)

	sales := api.Group("/sales")
	sales.GET("", handler.ListSales)
	sales.POST("", handler.RecordSale)
	sales.GET("/summary", handler.SalesSummary)
	sales.GET("/export", handler.ExportSales)
	sales.DELETE("/:id", handler.DeleteSale)

	alertRoutes := api.Group("/alerts")
	alertRoutes.GET("", handler.ListAlerts)
	alertRoutes.GET("/rules", handler.ListRules)
	alertRoutes.POST("/rules", handler.CreateRule)
	alertRoutes.DELETE("/rules/:id", handler.DeleteRule)

	api.GET("/dashboard", handler.Dashboard)

	logger.Info("router initialized")
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", handlers.RoleHeader, handlers.UserHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
