package auth

import (
	"go-timetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
		authGroup.POST("/logout", middleware.AuthMiddleware(), h.Logout)
	}

}

// RegisterTokenRoutes mounts the refresh endpoint at the server root, on the
// path shipped clients already use. Rotation must work with an expired access
// token, so it sits outside the auth middleware.
func RegisterTokenRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/token/refresh", h.Refresh)
}
