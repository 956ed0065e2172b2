package emailsuppression

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the SNS endpoint. SNS cannot authenticate with our
// JWTs, so the route sits outside the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	awsGroup := r.Group("/aws")
	{
		awsGroup.POST("/bounce", h.Bounce)
	}
}
