package app

import (
	"database/sql"

	"github.com/monaguib-hub/DocTrack/internal/auth"
	"github.com/monaguib-hub/DocTrack/internal/document"
	"github.com/monaguib-hub/DocTrack/internal/doctype"
	"github.com/monaguib-hub/DocTrack/internal/employee"
	"github.com/monaguib-hub/DocTrack/internal/messaging/kafka"
	"github.com/monaguib-hub/DocTrack/internal/rbac"
	"github.com/monaguib-hub/DocTrack/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	uploader storage.Uploader,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	documentRepo := document.NewRepository(gormDB)
	doctypeRepo := doctype.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, documentRepo, outboxRepo, rdb, logger)
	documentService := document.NewServiceWithOutbox(db, documentRepo, outboxRepo, uploader, logger)
	doctypeService := doctype.NewService(db, doctypeRepo, rdb, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	documentHandler := document.NewHandlerWithRedis(documentService, rdb, logger)
	doctypeHandler := doctype.NewHandler(doctypeService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		document.RegisterRoutes(api, documentHandler, rbacService, rdb, logger)
		doctype.RegisterRoutes(api, doctypeHandler, rbacService, logger)
	}

	return nil
}
