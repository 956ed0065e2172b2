package billing

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	billingerrors "go-timetrack/internal/billing/errors"
	"go-timetrack/internal/shared/apperror"
	"go-timetrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service       Service
	webhookSecret string
	logger        *zap.Logger
}

func NewHandler(service Service, webhookSecret string) *Handler {
	return &Handler{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        zap.L().Named("billing.handler"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Webhook verifies the signature over the raw body before any decoding. The
// body must be read whole, since the signature covers the exact bytes sent.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		h.writeServiceError(c, billingerrors.ErrMalformedPayload)
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if !VerifySignature(body, sigHeader, h.webhookSecret, time.Now(), DefaultSignatureTolerance) {
		h.logger.Warn("webhook signature rejected", zap.String("remote_addr", c.ClientIP()))
		h.writeServiceError(c, billingerrors.ErrInvalidSignature)
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.writeServiceError(c, billingerrors.ErrMalformedPayload)
		return
	}

	resp, err := h.service.HandleWebhook(c.Request.Context(), event)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
