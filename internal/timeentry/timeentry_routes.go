package timeentry

import (
	"go-timetrack/internal/middleware"
	"go-timetrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	entries := r.Group("/time-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.POST("/start", middleware.RBACAuthorize(rbacService, "time_entry", "create"), h.Start)
		entries.POST("/stop", middleware.RBACAuthorize(rbacService, "time_entry", "update"), h.Stop)
		entries.POST("/breaks/start", middleware.RBACAuthorize(rbacService, "time_entry", "update"), h.StartBreak)
		entries.POST("/breaks/stop", middleware.RBACAuthorize(rbacService, "time_entry", "update"), h.StopBreak)
		entries.GET("", middleware.RBACAuthorize(rbacService, "time_entry", "read"), h.GetAll)
		entries.GET("/:id", middleware.RBACAuthorize(rbacService, "time_entry", "read"), h.GetById)
		entries.PATCH("/:id", middleware.RBACAuthorize(rbacService, "time_entry", "update"), h.Update)
		entries.DELETE("/:id", middleware.RBACAuthorize(rbacService, "time_entry", "delete"), h.Delete)
		entries.POST("/approval", middleware.RBACAuthorize(rbacService, "time_entry", "approve"), h.BulkApproveReject)
	}
}
