package leave

import (
	"personnel-management/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb redis.Cmdable,
	guards ...gin.HandlerFunc,
) {
	leaves := r.Group("/leaves")
	leaves.Use(guards...)
	leaves.Use(middleware.ExtractUserID())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/balance", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Balance)
		leaves.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			middleware.RBACFlag(rbacService, "leave", "read_all", ContextHasReadAll),
			handler.GetByID,
		)
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		leaves.PATCH("/:id/decision", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Decide)
	}
}
