// Package validator decodes JSON request bodies and validates them with
// go-playground/validator struct tags. Field names in error maps use the json
// tag, so clients see the names they sent.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/itemstore/pkg/httpx"
)

// MaxBodyBytes caps the request body read by ValidateRequest.
const MaxBodyBytes = 100 << 10

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name to a human-readable message. Other errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, e := range ve {
		out[e.Field()] = fieldMessage(e)
	}
	return out
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Must be a valid UUID",
	"email":    "Must be a valid email address",
	"url":      "Must be a valid URL",
	"numeric":  "Must be a numeric value",
	"alpha":    "Must contain only letters",
	"alphanum": "Must contain only letters and numbers",
}

var paramMessages = map[string]string{
	"min":   "Minimum length is %s",
	"max":   "Maximum length is %s",
	"gte":   "Must be greater than or equal to %s",
	"lte":   "Must be less than or equal to %s",
	"oneof": "Must be one of: %s",
}

func fieldMessage(e validator.FieldError) string {
	if msg, ok := fixedMessages[e.Tag()]; ok {
		return msg
	}
	if format, ok := paramMessages[e.Tag()]; ok {
		return fmt.Sprintf(format, e.Param())
	}
	return fmt.Sprintf("Validation failed on '%s'", e.Tag())
}

// ValidateRequest decodes the JSON request body into T and validates it.
// Malformed JSON, a type mismatch, an oversized body and a failed rule all
// produce a 400 response. Returns (parsedStruct, true) on success or
// (nil, false) after the error response has been written.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
