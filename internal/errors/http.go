package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// apiErrorBody matches the API's error envelope: {"detail": "..."} or
// {"detail": [{"loc": [...], "msg": "...", "type": "..."}]} for validation failures.
type apiErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// FromHTTPStatus maps an API response status and body to an AppError.
// It handles common API error patterns including:
// - 400/422 → Validation (field taken from the first validation detail)
// - 401 → Unauthorized
// - 403 → Forbidden
// - 404 → NotFound
// - 409 → Conflict
// - 408/504 → Timeout
// - anything else ≥ 400 → Internal
func FromHTTPStatus(status int, body []byte) *AppError {
	message, field := parseDetail(body)
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "unexpected API response"
	}

	appErr := &AppError{Message: message, Field: field, Status: status}
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		appErr.Code = ErrCodeValidation
	case http.StatusUnauthorized:
		appErr.Code = ErrCodeUnauthorized
	case http.StatusForbidden:
		appErr.Code = ErrCodeForbidden
	case http.StatusNotFound:
		appErr.Code = ErrCodeNotFound
	case http.StatusConflict:
		appErr.Code = ErrCodeConflict
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		appErr.Code = ErrCodeTimeout
	default:
		appErr.Code = ErrCodeInternal
	}
	return appErr
}

// FromTransport maps a failure to reach the API to an AppError.
// Context timeouts/cancellations become Timeout/Canceled; everything else is Transport.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}
	return &AppError{
		Code:    ErrCodeTransport,
		Message: "API unreachable",
		Cause:   err,
	}
}

func parseDetail(body []byte) (string, string) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", ""
	}
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body)), ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text, ""
	}

	var details []validationDetail
	if err := json.Unmarshal(envelope.Detail, &details); err == nil && len(details) > 0 {
		return details[0].Msg, fieldFromLoc(details[0].Loc)
	}
	return strings.TrimSpace(string(envelope.Detail)), ""
}

// fieldFromLoc returns the last string element of a validation location, e.g. ["body","email"] → "email".
func fieldFromLoc(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok {
			return s
		}
	}
	return ""
}
