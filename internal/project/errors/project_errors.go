package projecterrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"project not found",
		http.StatusNotFound,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrInvalidClientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid client id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrPayRateNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay rate not configured for this user and project",
		http.StatusNotFound,
	)
	ErrClientNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"client does not belong to this company",
		http.StatusBadRequest,
	)
)
