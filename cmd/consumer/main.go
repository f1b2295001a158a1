package main

import (
	"personnel-management/internal/app"
	"personnel-management/internal/config"
	"personnel-management/internal/shared/apperror"
	"personnel-management/internal/shared/i18n"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if err := i18n.Init(cfg.App.Locale); err != nil {
		logger.Fatal("load translations failed", zap.Error(err))
	}

	if err := app.RunConsumer(cfg, logger); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
