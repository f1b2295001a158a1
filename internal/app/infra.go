package app

import (
	"context"

	"personnel-management/internal/config"
	"personnel-management/internal/migrations"
	"personnel-management/internal/shared/connection"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func connectDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*gorm.DB, func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(connection.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, cfg.Database.MaxRetries)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("close database failed", zap.Error(err))
		}
	}

	if migrate {
		if err := migrations.Up(ctx, sqlDB, logger); err != nil {
			closeDB()
			return nil, nil, err
		}
	}

	logger.Info("database connection established")
	return gormDB, closeDB, nil
}
