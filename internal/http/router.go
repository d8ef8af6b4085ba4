package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"place-trainer/internal/metrics"
)

// HealthCheck verifica una dependencia para /healthz.
type HealthCheck func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	identity IdentityParser,
	health HealthCheck,
	callableH *CallableHandler,
	placeH *PlaceHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	callable := r.Group("/callable", jsonContentTypeMiddleware(), IdentityMiddleware(identity))
	callable.POST("/manualRetrain", callableH.ManualRetrain)
	callable.POST("/getModelStats", callableH.GetModelStats)
	callable.POST("/verifyPlace", callableH.VerifyPlace)
	callable.POST("/getModelDownloadUrl", callableH.GetModelDownloadURL)

	places := r.Group("/places", jsonContentTypeMiddleware())
	places.POST("", placeH.CreatePlace)

	return r
}

// zapLoggerMiddleware loguea cada request con zap y registra su latencia.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordCallable(path, c.Writer.Status(), latency)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
