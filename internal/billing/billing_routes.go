package billing

import (
	"github.com/gin-gonic/gin"
)

// Webhook routes are unauthenticated; the signature check is the auth.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/webhook/stripe", h.Webhook)
}
