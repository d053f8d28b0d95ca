package document

import (
	"github.com/monaguib-hub/DocTrack/internal/middleware"
	"github.com/monaguib-hub/DocTrack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
	logger *zap.Logger,
) {
	documents := r.Group("/employees/:id/documents")
	documents.Use(middleware.AuthMiddleware())
	documents.Use(middleware.ContextLogger(logger))
	{
		documents.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "document", "read"),
			handler.GetByEmployee,
		)

		documents.GET("/:docId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "document", "read"),
			handler.GetByID,
		)

		// Upload rawan double-submit dari form; lindungi dengan Idempotency-Key
		if redisClient != nil {
			documents.POST("",
				middleware.RateLimitByUser(0.5, 2),
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "document", "create"),
				handler.Add,
			)
		} else {
			documents.POST("",
				middleware.RateLimitByUser(0.5, 2),
				middleware.RBACAuthorize(rbacService, "document", "create"),
				handler.Add,
			)
		}

		documents.PUT("/:docId",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "document", "update"),
			handler.Update,
		)

		documents.DELETE("/:docId",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "document", "delete"),
			handler.Delete,
		)
	}
}
