package app

import (
	"context"
	"os"

	"github.com/monaguib-hub/DocTrack/internal/document"
	"github.com/monaguib-hub/DocTrack/internal/doctype"
	"github.com/monaguib-hub/DocTrack/internal/employee"
	"github.com/monaguib-hub/DocTrack/internal/shared/connection"
	"github.com/monaguib-hub/DocTrack/internal/storage"
	"github.com/monaguib-hub/DocTrack/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine, logger *zap.Logger) error {
	// 1. Infrastruktur
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		// Redis hanya untuk cache/fallback; tanpa Redis aplikasi tetap jalan.
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		logger.Info("redis connection established")
	}

	var uploader storage.Uploader
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		s3Service, err := storage.NewS3Service(context.Background(), bucket, os.Getenv("AWS_REGION"))
		if err != nil {
			return err
		}
		uploader = s3Service
		logger.Info("s3 uploader configured", zap.String("bucket", bucket))
	} else {
		logger.Warn("S3_BUCKET not set, attachments disabled")
	}

	// 2. Modules & routes
	return registerModules(router, sqlDB, gormDB, redisClient, uploader, logger)
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&employee.Employee{},
		&document.Document{},
		&doctype.DocumentType{},
	); err != nil {
		return err
	}

	// Outbox dikelola dengan raw SQL, di luar jangkauan AutoMigrate.
	return db.Exec(`
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type TEXT NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type TEXT NOT NULL,
	topic TEXT NOT NULL,
	payload JSONB NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`).Error
}
