package app

import (
	"context"
	"net/http"

	"personnel-management/internal/config"
	"personnel-management/internal/middleware"
	"personnel-management/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure, registers every module on router
// and returns a cleanup that releases the connections.
func BuildApp(ctx context.Context, cfg *config.Config, router *gin.Engine, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")

	gormDB, closeDB, err := connectDatabase(ctx, cfg, log, cfg.Database.AutoMigrate)
	if err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.MaxRetries)
	if err != nil {
		closeDB()
		return nil, err
	}
	log.Info("redis connection established")

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	closePublisher, err := registerModules(router, cfg, gormDB, redisClient, logger)
	if err != nil {
		_ = redisClient.Close()
		closeDB()
		return nil, err
	}

	return func() {
		closePublisher()
		if err := redisClient.Close(); err != nil {
			log.Warn("close redis failed", zap.Error(err))
		}
		closeDB()
	}, nil
}
