package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/config"
	"github.com/jengzang/travel-segments-go/internal/handler"
	"github.com/jengzang/travel-segments-go/internal/middleware"
	"github.com/jengzang/travel-segments-go/internal/service"
)

// SetupRouter builds the HTTP API. ctx bounds background housekeeping.
func SetupRouter(ctx context.Context, cfg *config.Config, svc *service.SegmentationService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(zap.L()))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Segmentation API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(cfg.RunRateLimit, time.Minute)
	go limiter.Run(ctx)

	h := handler.NewSegmentationHandler(svc)

	api := r.Group("/api/v1")
	{
		seg := api.Group("/segmentation")
		{
			seg.POST("/runs", middleware.Auth(cfg.JWTSecret), middleware.RateLimit(limiter), h.CreateRun)
			seg.GET("/runs", h.ListRuns)
			seg.GET("/runs/:id", h.GetRun)
			seg.GET("/summary", h.GetSummary)
			seg.GET("/users", h.ListUsers)
		}
	}

	return r
}
