package app

import (
	"personnel-management/internal/config"
	"personnel-management/internal/leave"
	"personnel-management/internal/messaging/kafka"
	"personnel-management/internal/middleware"
	"personnel-management/internal/notification"
	"personnel-management/internal/rbac"
	"personnel-management/internal/rbac/infra"
	"personnel-management/internal/shared/connection"
	"personnel-management/internal/shared/txmanager"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) (func(), error) {
	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbac.NewStaticRepository(), enforcer, logger)
	if err := rbacService.LoadPolicy(); err != nil {
		return nil, err
	}

	// --- Services ---
	notificationChannel := notification.NewRedisChannel(rdb, logger)
	notificationService := newNotificationService(cfg, gormDB, notificationChannel, logger)

	publisher, closePublisher, err := newLeaveEventPublisher(cfg, gormDB, notificationService, logger)
	if err != nil {
		return nil, err
	}
	leaveService := newLeaveService(cfg, gormDB, publisher, logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, notificationChannel, logger)

	// --- Routes Registration ---
	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	userLimit := middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, auth, userLimit)
		notification.RegisterRoutes(api, notificationHandler, rbacService, auth, userLimit)
	}

	return closePublisher, nil
}

func newLeaveService(cfg *config.Config, gormDB *gorm.DB, publisher leave.EventPublisher, logger *zap.Logger) leave.Service {
	return leave.NewServiceWithPublisher(
		txmanager.New(gormDB),
		leave.NewRepository(gormDB),
		leave.NewBalanceRepository(gormDB),
		publisher,
		leave.ServiceConfig{
			InitialDays:    cfg.Leave.DefaultAllowanceDays,
			PublishTimeout: cfg.Notification.PushTimeout,
		},
		logger,
	)
}

func newNotificationService(cfg *config.Config, gormDB *gorm.DB, channel notification.Channel, logger *zap.Logger) notification.Service {
	return notification.NewService(
		notification.NewRepository(gormDB),
		channel,
		cfg.Notification.PushTimeout,
		logger,
	)
}

// newLeaveEventPublisher picks how leave decisions leave the process.
// The returned cleanup closes whatever the publisher opened.
func newLeaveEventPublisher(
	cfg *config.Config,
	gormDB *gorm.DB,
	notifications notification.Service,
	logger *zap.Logger,
) (leave.EventPublisher, func(), error) {
	switch cfg.Notification.Mode {
	case config.NotificationModeOutbox:
		logger.Info("leave decisions go through the outbox")
		return leave.NewOutboxEventPublisher(kafka.NewOutboxRepository(gormDB)), func() {}, nil
	case config.NotificationModeKafka:
		writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Kafka.MaxRetries)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("leave decisions are written to kafka", zap.String("broker", cfg.Kafka.Broker))
		return leave.NewKafkaEventPublisher(writer), func() {
			if err := writer.Close(); err != nil {
				logger.Warn("close kafka writer failed", zap.Error(err))
			}
		}, nil
	default:
		logger.Info("leave decisions notify inline")
		return notification.NewLeaveDecisionNotifier(notifications), func() {}, nil
	}
}
