package doctype

import (
	"github.com/monaguib-hub/DocTrack/internal/middleware"
	"github.com/monaguib-hub/DocTrack/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	docTypes := r.Group("/document-types")
	docTypes.Use(middleware.AuthMiddleware())
	docTypes.Use(middleware.ContextLogger(logger))
	{
		docTypes.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "doctype", "read"),
			handler.GetTree,
		)

		docTypes.GET("/options",
			middleware.RateLimitByUser(5, 20), // Limit sedikit lebih longgar karena ringan
			middleware.RBACAuthorize(rbacService, "doctype", "read"),
			handler.GetOptions,
		)

		docTypes.GET("/categories",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "doctype", "read"),
			handler.GetCategories,
		)

		docTypes.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "doctype", "create"),
			handler.Create,
		)

		docTypes.POST("/import",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "doctype", "create"),
			handler.ImportTemplates,
		)

		docTypes.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "doctype", "update"),
			handler.Update,
		)

		docTypes.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "doctype", "delete"),
			handler.Delete,
		)
	}
}
