package companyerrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrCompanyCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"company code is already taken",
		http.StatusConflict,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company status",
		http.StatusBadRequest,
	)
)
