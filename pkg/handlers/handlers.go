// Package handlers provides shared JSON request and response helpers for HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request decoding errors.
var (
	ErrInvalidBody  = errors.New("invalid request body")
	ErrBodyTooLarge = errors.New("request body too large")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as {"error": "..."} with the given status code.
// Client errors log at warn level.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "handler error", "error", err, "status", status)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// Bind decodes a JSON body of at most maxBytes into dst and validates it with
// its `validate` struct tags. Unknown fields are rejected.
func Bind(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		default:
			return fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
	}

	if dec.More() {
		return fmt.Errorf("%w: multiple JSON values", ErrInvalidBody)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBody, describe(err))
	}

	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
