// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"

	"github.com/Joshuakibwage/polling-app/apperr"
	"github.com/Joshuakibwage/polling-app/models"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidationFailed:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as a JSON error response. Untagged errors become
// internal errors; their details are logged and never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	status := StatusFor(appErr.Kind)
	log := LoggerFrom(r.Context())

	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		if message == "" {
			message = "Internal server error"
		}
	} else {
		log.Debug("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Kind.Code(),
			"error", err,
		)
	}

	JSONResponse(w, status, models.ErrorResponse{
		Error:     appErr.Kind.Code(),
		Message:   message,
		Details:   appErr.Fields,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return apperr.KindUnauthenticated.Code()
	case http.StatusForbidden:
		return apperr.KindUnauthorized.Code()
	case http.StatusNotFound:
		return apperr.KindNotFound.Code()
	case http.StatusConflict:
		return apperr.KindConflict.Code()
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return apperr.KindInternal.Code()
	}
}
