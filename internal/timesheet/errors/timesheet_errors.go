package timesheeterrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrInvalidTimesheetID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timesheet id",
		http.StatusBadRequest,
	)
	ErrTimesheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"timesheet not found",
		http.StatusNotFound,
	)
	ErrActiveEntryOnTimesheet = apperror.New(
		apperror.CodeInvalidState,
		"timesheet has a running time entry, stop it before submitting",
		http.StatusBadRequest,
	)
	ErrNotSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"timesheet must be submitted before approval",
		http.StatusBadRequest,
	)
	ErrAlreadyApproved = apperror.New(
		apperror.CodeInvalidState,
		"timesheet is already approved",
		http.StatusBadRequest,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"timesheet is not approved",
		http.StatusBadRequest,
	)
	ErrInvalidUnlockStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status_to_unlock must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"timesheet belongs to another user",
		http.StatusForbidden,
	)
	ErrInvalidReplyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reply_id",
		http.StatusBadRequest,
	)
)
