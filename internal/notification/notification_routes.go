package notification

import (
	"personnel-management/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	guards ...gin.HandlerFunc,
) {
	notifications := r.Group("/notifications")
	notifications.Use(guards...)
	notifications.Use(middleware.ExtractUserID())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.GetAll)
		notifications.GET("/stream", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.Stream)
		notifications.PATCH("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkRead)
	}
}
