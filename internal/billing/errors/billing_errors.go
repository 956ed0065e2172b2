package billingerrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrInvalidSignature = apperror.New(
		apperror.CodeUnauthorized,
		"webhook signature verification failed",
		http.StatusUnauthorized,
	)
	ErrMalformedPayload = apperror.New(
		apperror.CodeInvalidInput,
		"webhook payload could not be parsed",
		http.StatusBadRequest,
	)
	ErrUnknownCustomer = apperror.New(
		apperror.CodeNotFound,
		"no company for stripe customer",
		http.StatusNotFound,
	)
	ErrUnhandledEventType = apperror.New(
		apperror.CodeNotImplemented,
		"event type is not handled",
		http.StatusNotImplemented,
	)
)
