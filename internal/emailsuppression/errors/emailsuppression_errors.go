package emailsuppressionerrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrMalformedNotification = apperror.New("MALFORMED_NOTIFICATION", "Notification payload could not be parsed", http.StatusBadRequest)
	ErrUnknownMessageType    = apperror.New("UNKNOWN_MESSAGE_TYPE", "Unsupported SNS message type", http.StatusBadRequest)
)
