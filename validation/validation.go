// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Joshuakibwage/polling-app/apperr"
	"github.com/Joshuakibwage/polling-app/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so field paths match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}

	return v
}

type createPollPayload struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Description        *string  `json:"description" validate:"omitempty,max=1000"`
	Category           *string  `json:"category" validate:"omitempty,max=100"`
	Options            []string `json:"options" validate:"required,min=2,max=10,dive,required,max=200"`
	IsPublic           *bool    `json:"isPublic"`
	AllowMultipleVotes *bool    `json:"allowMultipleVotes"`
	EndDate            string   `json:"endDate" validate:"omitempty,timestamp"`
	ExpiresAt          string   `json:"expires_at" validate:"omitempty,timestamp"`
}

type updatePollPayload struct {
	Title   string   `json:"title" validate:"required,min=3,max=200"`
	Options []string `json:"options" validate:"required,min=2,max=10,dive,required,max=100"`
}

type votePayload struct {
	PollID   string `json:"poll_id" validate:"required,uuid"`
	OptionID string `json:"option_id" validate:"required,uuid"`
}

type paginationQuery struct {
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// ParseCreatePoll decodes and validates a poll creation body. Strings are
// trimmed before any constraint is checked; every violation is reported.
func ParseCreatePoll(data []byte) (models.CreatePollInput, error) {
	var p createPollPayload
	typeFields, err := decode(data, &p)
	if err != nil {
		return models.CreatePollInput{}, err
	}

	p.Title = strings.TrimSpace(p.Title)
	p.Description = trimOptional(p.Description)
	p.Category = trimOptional(p.Category)
	p.Options = trimAll(p.Options)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.ExpiresAt = strings.TrimSpace(p.ExpiresAt)

	if err := checkWith(p, typeFields); err != nil {
		return models.CreatePollInput{}, err
	}

	input := models.CreatePollInput{
		Title:              p.Title,
		Description:        p.Description,
		Category:           p.Category,
		Options:            p.Options,
		IsPublic:           true,
		AllowMultipleVotes: false,
	}
	if p.IsPublic != nil {
		input.IsPublic = *p.IsPublic
	}
	if p.AllowMultipleVotes != nil {
		input.AllowMultipleVotes = *p.AllowMultipleVotes
	}

	raw := p.EndDate
	if raw == "" {
		raw = p.ExpiresAt
	}
	if raw != "" {
		// Already validated by the timestamp tag.
		t, _ := ParseTimestamp(raw)
		input.ExpiresAt = &t
	}

	return input, nil
}

// ParseUpdatePoll decodes and validates a poll update body.
func ParseUpdatePoll(data []byte) (models.UpdatePollInput, error) {
	var p updatePollPayload
	typeFields, err := decode(data, &p)
	if err != nil {
		return models.UpdatePollInput{}, err
	}

	p.Title = strings.TrimSpace(p.Title)
	p.Options = trimAll(p.Options)

	if err := checkWith(p, typeFields); err != nil {
		return models.UpdatePollInput{}, err
	}

	return models.UpdatePollInput{Title: p.Title, Options: p.Options}, nil
}

// ParseVote decodes and validates a vote body. A non-empty pollID (taken from
// the request path) replaces any poll_id in the body.
func ParseVote(pollID string, data []byte) (models.VoteInput, error) {
	var p votePayload
	typeFields, err := decode(data, &p)
	if err != nil {
		return models.VoteInput{}, err
	}

	if pollID = strings.TrimSpace(pollID); pollID != "" {
		p.PollID = pollID
	}
	p.PollID = strings.TrimSpace(p.PollID)
	p.OptionID = strings.TrimSpace(p.OptionID)

	if err := checkWith(p, typeFields); err != nil {
		return models.VoteInput{}, err
	}

	return models.VoteInput{PollID: p.PollID, OptionID: p.OptionID}, nil
}

// ParsePagination reads limit and offset from a query string.
func ParsePagination(q url.Values) (limit, offset int, err error) {
	p := paginationQuery{Limit: DefaultLimit}
	var fields []models.FieldError

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			fields = append(fields, models.FieldError{Field: "limit", Message: "Limit must be an integer"})
		} else {
			p.Limit = n
		}
	}
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			fields = append(fields, models.FieldError{Field: "offset", Message: "Offset must be an integer"})
		} else {
			p.Offset = n
		}
	}

	if verr := check(p); verr != nil {
		var appErr *apperr.Error
		if errors.As(verr, &appErr) {
			fields = append(fields, appErr.Fields...)
		}
	}
	if len(fields) > 0 {
		return 0, 0, apperr.Validation("Invalid pagination", fields)
	}

	return p.Limit, p.Offset, nil
}

// ParseTimestamp accepts RFC 3339 and the HTML datetime-local layouts.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q", s)
}

// decode unmarshals data into v. An empty body or malformed JSON is a
// validation error on its own. A type mismatch is returned as a field error so
// the caller can report it together with the struct constraints; json keeps
// filling the other fields after one.
func decode(data []byte, v any) ([]models.FieldError, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, apperr.Validation("Request body is required", []models.FieldError{
			{Field: "body", Message: "Request body is required"},
		})
	}

	err := json.Unmarshal(data, v)
	if err == nil {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []models.FieldError{
			{Field: field, Message: fmt.Sprintf("Expected %s", typeErr.Type.String())},
		}, nil
	}

	return nil, apperr.Validation("Invalid JSON", []models.FieldError{
		{Field: "body", Message: "Request body must be valid JSON"},
	})
}

// checkWith validates v and merges in typeFields. A field that failed to
// decode is reported once, with its type error.
func checkWith(v any, typeFields []models.FieldError) error {
	fields := append([]models.FieldError{}, typeFields...)

	if err := check(v); err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidationFailed {
			return err
		}
		for _, fe := range appErr.Fields {
			if !reported(typeFields, fe.Field) {
				fields = append(fields, fe)
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation("Validation failed", fields)
}

func reported(fields []models.FieldError, name string) bool {
	for _, fe := range fields {
		if fe.Field == name || strings.HasPrefix(fe.Field, name+".") {
			return true
		}
	}
	return false
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validation failed", err)
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return apperr.Validation("Validation failed", fields)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

var labels = map[string]string{
	"title":       "Title",
	"description": "Description",
	"category":    "Category",
	"options":     "Options",
	"endDate":     "End date",
	"expires_at":  "Expiry date",
	"poll_id":     "Poll ID",
	"option_id":   "Option ID",
	"limit":       "Limit",
	"offset":      "Offset",
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	label := labels[name]
	if i := strings.Index(name, "["); i >= 0 {
		label = "Option text"
	}
	if label == "" {
		label = name
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("At least %s options are required", fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		default:
			return fmt.Sprintf("%s must be at least %s", label, fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("Maximum %s options allowed", fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		default:
			return fmt.Sprintf("%s must be at most %s", label, fe.Param())
		}
	case "uuid":
		return label + " must be a valid UUID"
	case "timestamp":
		return label + " must be a valid date-time"
	}
	return label + " is invalid"
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
