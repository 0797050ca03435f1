package config

import (
	"log"

	"go.uber.org/zap"
)

var Logger *zap.Logger

// InitLogger builds the process logger. Production encoding is used when
// APP_ENV is "production", development encoding otherwise.
func InitLogger(env string) *zap.Logger {
	var err error
	if env == "production" {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}

	Logger.Info("✅ Zap logger initialized", zap.String("env", env))
	return Logger
}
