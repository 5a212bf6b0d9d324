package service

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure so the transport layer can map it to a
// status code without parsing messages.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidState
	KindConflict
	KindInvalid
)

// Error is the failure value every engine operation returns: a kind, a stable
// machine code, and a human message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Invalid(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Code: code, Message: fmt.Sprintf(format, args...)}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsInvalid(err error) bool      { return KindOf(err) == KindInvalid }

// Stable machine codes, mirrored by the HTTP layer in error payloads.
const (
	CodeGuestNotFound        = "GUEST_NOT_FOUND"
	CodeRoomNotFound         = "ROOM_NOT_FOUND"
	CodeRoomTypeNotFound     = "ROOM_TYPE_NOT_FOUND"
	CodeReservationNotFound  = "RESERVATION_NOT_FOUND"
	CodeServiceNotFound      = "SERVICE_NOT_FOUND"
	CodeRoomUnavailable      = "ROOM_UNAVAILABLE"
	CodeDateConflict         = "DATE_CONFLICT"
	CodeInvalidDateRange     = "INVALID_DATE_RANGE"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidState         = "INVALID_STATE"
	CodeCheckInDateFuture    = "CHECKIN_DATE_FUTURE"
	CodePendingPayments      = "PENDING_PAYMENTS"
	CodeReservationCompleted = "RESERVATION_COMPLETED"
	CodeReservationCancelled = "RESERVATION_CANCELLED"
	CodeReservationInCourse  = "RESERVATION_IN_PROGRESS"
)
