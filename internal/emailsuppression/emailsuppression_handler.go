package emailsuppression

import (
	"io"
	"net/http"

	emailsuppressionerrors "go-timetrack/internal/emailsuppression/errors"
	"go-timetrack/internal/shared/apperror"
	"go-timetrack/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Bounce accepts Amazon SNS delivery notifications. SNS posts with
// Content-Type text/plain, so the body is read raw instead of bound.
func (h *Handler) Bounce(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		h.writeServiceError(c, emailsuppressionerrors.ErrMalformedNotification)
		return
	}

	resp, err := h.service.HandleNotification(c.Request.Context(), body)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
