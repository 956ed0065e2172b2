package timesheet

import (
	"go-timetrack/internal/middleware"
	"go-timetrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware())
	{
		timesheets.GET("", middleware.RBACAuthorize(rbacService, "timesheet", "read"), h.GetAll)
		timesheets.GET("/:id", middleware.RBACAuthorize(rbacService, "timesheet", "read"), h.GetById)
		timesheets.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "timesheet", "update"), h.Submit)
		timesheets.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "timesheet", "approve"), h.Approve)
		timesheets.POST("/:id/unlock", middleware.RBACAuthorize(rbacService, "timesheet", "approve"), h.Unlock)
		timesheets.GET("/:id/comments", middleware.RBACAuthorize(rbacService, "timesheet", "read"), h.ListComments)
		timesheets.POST("/:id/comments", middleware.RBACAuthorize(rbacService, "timesheet", "update"), h.AddComment)
	}
}
