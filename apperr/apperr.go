// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apperr defines the closed set of failures the API reports to callers.
package apperr

import (
	"errors"

	"github.com/Joshuakibwage/polling-app/models"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindValidationFailed
	KindConflict
)

// Code returns the machine-readable error code sent to clients.
func (k Kind) Code() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidationFailed:
		return "validation_failed"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

func (k Kind) String() string {
	return k.Code()
}

// Error is a tagged failure. Fields is only populated for KindValidationFailed.
type Error struct {
	Kind    Kind
	Message string
	Fields  []models.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Code() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.Code() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string, fields []models.FieldError) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Kind: KindValidationFailed, Message: message, Fields: fields}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From returns err as an *Error, treating anything untagged as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// KindOf reports the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
