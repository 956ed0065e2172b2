package project

import (
	"go-timetrack/internal/middleware"
	"go-timetrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("", middleware.RBACAuthorize(rbacService, "project", "read"), h.GetAll)
		projects.GET("/options", h.GetOptions)
		projects.GET("/:id", middleware.RBACAuthorize(rbacService, "project", "read"), h.GetById)
		projects.POST("", middleware.RBACAuthorize(rbacService, "project", "create"), h.Create)
		projects.PATCH("/:id", middleware.RBACAuthorize(rbacService, "project", "update"), h.Update)
		projects.DELETE("/:id", middleware.RBACAuthorize(rbacService, "project", "delete"), h.Delete)
		projects.PUT("/:id/pay-rates", middleware.RBACAuthorize(rbacService, "project", "update"), h.SetPayRate)
	}
}
