package service

import (
	"errors"
	"strings"
)

// Kind classifies a service failure
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindDuplicateData
	KindNotFound
	KindReferralInvalid
	KindReferralSuspended
	KindCodeGenerationExhausted
	KindDuplicateRedemption
	KindOrderCreationFailed
	KindConflict
	KindForbidden
	KindStore
	KindUnauthorized
)

var kindNames = map[Kind]string{
	KindValidation:              "ValidationError",
	KindDuplicateData:           "DuplicateData",
	KindNotFound:                "NotFound",
	KindReferralInvalid:         "ReferralInvalid",
	KindReferralSuspended:       "ReferralSuspended",
	KindCodeGenerationExhausted: "CodeGenerationExhausted",
	KindDuplicateRedemption:     "DuplicateRedemption",
	KindOrderCreationFailed:     "OrderCreationFailed",
	KindConflict:                "Conflict",
	KindForbidden:               "Forbidden",
	KindStore:                   "StoreError",
	KindUnauthorized:            "Unauthorized",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UnknownError"
}

// Error is the typed failure returned by every service operation
type Error struct {
	Kind    Kind
	Message string
	Fields  []string // Offending input fields, if any
	Err     error    // Underlying cause, never shown to callers
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.Fields, ", ") + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrValidation              = &Error{Kind: KindValidation}
	ErrDuplicateData           = &Error{Kind: KindDuplicateData}
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrReferralInvalid         = &Error{Kind: KindReferralInvalid}
	ErrReferralSuspended       = &Error{Kind: KindReferralSuspended}
	ErrCodeGenerationExhausted = &Error{Kind: KindCodeGenerationExhausted}
	ErrDuplicateRedemption     = &Error{Kind: KindDuplicateRedemption}
	ErrOrderCreationFailed     = &Error{Kind: KindOrderCreationFailed}
	ErrConflict                = &Error{Kind: KindConflict}
	ErrForbidden               = &Error{Kind: KindForbidden}
	ErrStore                   = &Error{Kind: KindStore}
	ErrUnauthorized            = &Error{Kind: KindUnauthorized}
)

func validationError(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func notFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func storeError(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindStore for untyped errors
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStore
}
