package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/bayesdx/internal/bayes"
	"github.com/abhisek/bayesdx/internal/catalog"
)

// Error codes returned in the "error" field of the envelope.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidationError = "validation_error"
	CodeUnknownTest     = "unknown_test"
	CodeUnauthorized    = "unauthorized"
	CodeInternal        = "internal_error"
)

// requestError reports a body that is not valid JSON or does not match the
// request schema.
type requestError struct {
	Reason string
}

func (e *requestError) Error() string { return e.Reason }

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// classify maps an error to its HTTP status and error code. Internal errors
// carry no description.
func classify(err error) (status int, code, description string) {
	var reqErr *requestError
	var valErr *bayes.ValidationError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, CodeInvalidRequest, reqErr.Reason
	case errors.As(err, &valErr):
		return http.StatusBadRequest, CodeValidationError, err.Error()
	case errors.Is(err, catalog.ErrUnknownTest):
		return http.StatusNotFound, CodeUnknownTest, err.Error()
	default:
		return http.StatusInternalServerError, CodeInternal, ""
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal_error"}`)
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, code, description, requestID string) {
	writeJSON(w, status, errorResponse{Error: code, Description: description, RequestID: requestID})
}
