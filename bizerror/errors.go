package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("access forbidden")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAlreadyCancelled  = errors.New("already cancelled")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// ErrValidationFailed carries the completion check message shown to the user.
type ErrValidationFailed struct {
	Message string
}

func (e *ErrValidationFailed) Error() string {
	return e.Message
}
func (e *ErrValidationFailed) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusUnprocessableEntity, Code: "job.validation_failed", Message: e.Message}
}

// ErrReason attaches a display message to one of the sentinel errors above.
type ErrReason struct {
	Kind    error
	Message string
}

func Reason(kind error, message string) error {
	return &ErrReason{Kind: kind, Message: message}
}

func (e *ErrReason) Error() string {
	return e.Message
}
func (e *ErrReason) Unwrap() error {
	return e.Kind
}

// MessageOf returns the display message of err, preferring an attached reason.
func MessageOf(err error, fallback string) string {
	var reason *ErrReason
	if errors.As(err, &reason) && reason.Message != "" {
		return reason.Message
	}
	return fallback
}
