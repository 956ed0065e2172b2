package invoiceerrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrInvalidInvoiceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid invoice id",
		http.StatusBadRequest,
	)
	ErrInvalidClientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid client id",
		http.StatusBadRequest,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be PENDING, SENT or RECEIVED",
		http.StatusBadRequest,
	)
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"invoice not found",
		http.StatusNotFound,
	)
	ErrTimesheetNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"timesheet must be approved before invoicing",
		http.StatusBadRequest,
	)
	ErrNothingToInvoice = apperror.New(
		apperror.CodeInvalidState,
		"timesheet has no approved uninvoiced entries",
		http.StatusBadRequest,
	)
	ErrInvoiceNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending invoices can be changed or deleted",
		http.StatusBadRequest,
	)
	ErrEntriesAlreadyClaimed = apperror.New(
		apperror.CodeConflict,
		"entries were invoiced by a concurrent request",
		http.StatusConflict,
	)
)
