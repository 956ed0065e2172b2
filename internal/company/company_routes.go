package company

import (
	"go-timetrack/internal/middleware"
	"go-timetrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	// Company signup is the only unauthenticated route.
	r.POST("/companies", h.Create)

	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("/me", h.GetMe)
		companies.PATCH("/me", middleware.RBACAuthorize(rbacService, "company", "update"), h.Update)
	}
}
