package activitylog

import (
	"go-timetrack/internal/middleware"
	"go-timetrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	logs := r.Group("/activity-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "activity_log", "read"), h.GetAll)
	}
}
