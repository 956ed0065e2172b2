package clienterrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"client not found",
		http.StatusNotFound,
	)
	ErrClientAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a client with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidClientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid client id",
		http.StatusBadRequest,
	)
)
