package invoice

import (
	"go-timetrack/internal/middleware"
	"go-timetrack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	{
		invoices.GET("", middleware.RBACAuthorize(rbacService, "invoice", "read"), h.GetAll)
		invoices.GET("/:id", middleware.RBACAuthorize(rbacService, "invoice", "read"), h.GetById)
		invoices.POST("", middleware.RBACAuthorize(rbacService, "invoice", "create"), middleware.Idempotency(rdb), h.Create)
		invoices.POST("/from-timesheet", middleware.RBACAuthorize(rbacService, "invoice", "create"), middleware.Idempotency(rdb), h.CreateFromTimesheet)
		invoices.PATCH("/:id", middleware.RBACAuthorize(rbacService, "invoice", "update"), h.Update)
		invoices.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "invoice", "update"), h.UpdateStatus)
		invoices.DELETE("/:id", middleware.RBACAuthorize(rbacService, "invoice", "delete"), h.Delete)
	}
}
