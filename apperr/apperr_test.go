// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Joshuakibwage/polling-app/models"
)

func TestKindCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnauthenticated, "unauthenticated"},
		{KindUnauthorized, "unauthorized"},
		{KindNotFound, "not_found"},
		{KindValidationFailed, "validation_failed"},
		{KindConflict, "conflict"},
		{KindInternal, "internal"},
	}

	for _, tt := range tests {
		if got := tt.kind.Code(); got != tt.want {
			t.Errorf("Kind(%d).Code() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConstructorDefaults(t *testing.T) {
	assert.Equal(t, "Authentication required", Unauthenticated("").Message)
	assert.Equal(t, "Forbidden", Unauthorized("").Message)
	assert.Equal(t, "Validation failed", Validation("", nil).Message)
	assert.Equal(t, "Poll not found", NotFound("Poll not found").Message)
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("unique violation")
	err := Conflict("You have already voted on this poll", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "conflict: You have already voted on this poll: unique violation", err.Error())
	assert.Equal(t, "not_found: gone", NotFound("gone").Error())
}

func TestFrom(t *testing.T) {
	fields := []models.FieldError{{Field: "title", Message: "Title is required"}}
	tagged := Validation("Validation failed", fields)
	wrapped := fmt.Errorf("create poll: %w", tagged)

	got := From(wrapped)
	assert.Same(t, tagged, got)
	assert.Equal(t, fields, got.Fields)

	plain := errors.New("boom")
	internal := From(plain)
	assert.Equal(t, KindInternal, internal.Kind)
	assert.Equal(t, "Internal server error", internal.Message)
	assert.ErrorIs(t, internal, plain)

	assert.Nil(t, From(nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("x: %w", NotFound("gone"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
