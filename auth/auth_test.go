// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestVerifySubject(t *testing.T) {
	cfg := Config{Secret: "test-secret", Issuer: "polls-auth", Audience: "polls-api"}
	v, err := NewVerifier(cfg)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := IssueToken(cfg, "user-123", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	subject, err := v.VerifySubject(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "user-123" {
		t.Errorf("expected user-123, got %s", subject)
	}
}

func TestVerifySubject_Rejects(t *testing.T) {
	cfg := Config{Secret: "test-secret", Issuer: "polls-auth"}
	v, err := NewVerifier(cfg)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	expired, _ := IssueToken(Config{Secret: "test-secret", Issuer: "polls-auth"}, "u", -time.Hour)
	wrongSecret, _ := IssueToken(Config{Secret: "other", Issuer: "polls-auth"}, "u", time.Hour)
	wrongIssuer, _ := IssueToken(Config{Secret: "test-secret", Issuer: "someone-else"}, "u", time.Hour)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u",
		Issuer:  "polls-auth",
	}).SignedString([]byte("test-secret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "polls-auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "u",
		Issuer:    "polls-auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", wrongSecret},
		{"wrong issuer", wrongIssuer},
		{"no expiry", noExpiry},
		{"no subject", noSubject},
		{"wrong algorithm", hs512},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifySubject(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	if _, err := v.VerifySubject(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier(Config{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			if ok != tt.ok || token != tt.token {
				t.Errorf("BearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, token, ok, tt.token, tt.ok)
			}
		})
	}
}

func TestUserIDContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Error("expected no user on empty context")
	}

	ctx := WithUserID(context.Background(), "user-1")
	userID, ok := UserIDFromContext(ctx)
	if !ok || userID != "user-1" {
		t.Errorf("expected user-1, got %q (%v)", userID, ok)
	}
}
