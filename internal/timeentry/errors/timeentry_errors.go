package timeentryerrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrInvalidEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time entry id",
		http.StatusBadRequest,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidEntryType = apperror.New(
		apperror.CodeInvalidInput,
		"entry_type must be TIMESHEET or OTHER",
		http.StatusBadRequest,
	)
	ErrInvalidApprovalStatus = apperror.New(
		apperror.CodeInvalidInput,
		"approval_status must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"time entry not found",
		http.StatusNotFound,
	)
	ErrActiveEntryExists = apperror.New(
		apperror.CodeConflict,
		"an active time entry already exists for this user",
		http.StatusConflict,
	)
	ErrNoActiveEntry = apperror.New(
		apperror.CodeInvalidState,
		"no active time entry found for this user",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrEntryLocked = apperror.New(
		apperror.CodeInvalidState,
		"time entry is approved or invoiced and can only be changed through unlock",
		http.StatusBadRequest,
	)
	ErrBreakAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"a break is already running for this entry",
		http.StatusConflict,
	)
	ErrNoOpenBreak = apperror.New(
		apperror.CodeInvalidState,
		"no running break found for this entry",
		http.StatusBadRequest,
	)
	ErrBulkUpdateIncomplete = apperror.New(
		apperror.CodeConflict,
		"one or more time entries could not be updated",
		http.StatusConflict,
	)
)
