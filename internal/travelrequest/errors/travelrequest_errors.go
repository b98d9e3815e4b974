package travelrequesterrors

import (
	"net/http"

	"go-traveldesk/internal/shared/apperror"
)

var (
	ErrTravelRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Travel request not found",
		http.StatusNotFound,
	)
	ErrUnauthorizedAccess = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized access",
		http.StatusForbidden,
	)
	ErrOnlyAdminCanUpdateStatus = apperror.New(
		apperror.CodeForbidden,
		"Only administrators can update travel request status",
		http.StatusForbidden,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Cannot modify a travel request that is not pending",
		http.StatusConflict,
	)
	ErrDeleteNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Cannot delete a travel request that is not pending",
		http.StatusConflict,
	)
	ErrCannotCancelApproved = apperror.New(
		apperror.CodeInvalidState,
		"Cannot cancel an approved travel request",
		http.StatusConflict,
	)
	ErrAlreadyTerminal = apperror.New(
		apperror.CodeInvalidState,
		"Travel request is already cancelled or rejected",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Travel request status cannot change from its current state",
		http.StatusConflict,
	)
	ErrConcurrentTransition = apperror.New(
		apperror.CodeConflict,
		"Travel request status changed concurrently, please retry",
		http.StatusConflict,
	)
)
