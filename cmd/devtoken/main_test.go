// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joshuakibwage/polling-app/auth"
)

func TestRun(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("JWT_ISSUER", "polling-app")
	t.Setenv("JWT_AUDIENCE", "")

	var out bytes.Buffer
	err := run([]string{"-user", "alice", "-env-file", filepath.Join(t.TempDir(), "missing.env")}, &out)
	require.NoError(t, err)

	v, err := auth.NewVerifier(auth.Config{Secret: "dev-secret", Issuer: "polling-app"})
	require.NoError(t, err)

	subject, err := v.VerifySubject(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestRun_Errors(t *testing.T) {
	noEnv := filepath.Join(t.TempDir(), "missing.env")

	tests := []struct {
		name    string
		secret  string
		args    []string
		wantErr string
	}{
		{"missing user", "dev-secret", []string{}, "-user is required"},
		{"bad ttl", "dev-secret", []string{"-user", "alice", "-ttl", "-1h"}, "-ttl must be positive"},
		{"missing secret", "", []string{"-user", "alice"}, "requires a secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			var out bytes.Buffer
			err := run(append(tt.args, "-env-file", noEnv), &out)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, out.String())
		})
	}
}
