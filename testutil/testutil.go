// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Joshuakibwage/polling-app/auth"
	"github.com/Joshuakibwage/polling-app/cliparse"
	"github.com/Joshuakibwage/polling-app/db"
	"github.com/Joshuakibwage/polling-app/models"
	"github.com/Joshuakibwage/polling-app/store"
)

// TestJWTSecret signs every session token used in tests.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database file with all migrations applied
func SetupTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	url := db.SQLiteDSN(filepath.Join(t.TempDir(), "polls.db"))

	if err := db.Migrate(db.TypeSQLite, url); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn, url
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T, opts ...store.Option) (*store.Store, *sql.DB) {
	t.Helper()
	conn, _ := SetupTestDB(t)
	return store.New(conn, db.TypeSQLite, opts...), conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        "file:test.db",
		DatabaseType:       db.TypeSQLite,
		LogLevel:           "debug",
		LogFormat:          "text",
		JWTSecret:          TestJWTSecret,
		JWTLeeway:          30 * time.Second,
		CORSAllowedOrigins: []string{"*"},
		CreateRateLimit:    10,
		VoteRateLimit:      30,
		ShutdownTimeout:    time.Second,
	}
}

// NewVerifier returns a session verifier matching TestToken
func NewVerifier(t *testing.T) *auth.Verifier {
	t.Helper()
	v, err := auth.NewVerifier(auth.Config{Secret: TestJWTSecret})
	if err != nil {
		t.Fatalf("Failed to create verifier: %v", err)
	}
	return v
}

// TestToken signs a session token for userID
func TestToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.IssueToken(auth.Config{Secret: TestJWTSecret}, userID, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// AuthHeader returns an Authorization header for userID
func AuthHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + TestToken(t, userID)}
}

// CreateTestPoll creates a public poll owned by ownerID with the given options
func CreateTestPoll(t *testing.T, s *store.Store, ownerID, title string, options ...string) *models.PollWithOptions {
	t.Helper()

	if len(options) == 0 {
		options = []string{"Option A", "Option B"}
	}

	poll, err := s.CreatePoll(context.Background(), models.CreatePollInput{
		Title:    title,
		Options:  options,
		IsPublic: true,
	}, ownerID)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		switch b := body.(type) {
		case string:
			jsonBody = []byte(b)
		case []byte:
			jsonBody = b
		default:
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// CountRows returns the number of rows in table matching where
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...any) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
