package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, msg string) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg}
}

var (
	errNotFound      = newAPIError(http.StatusNotFound, "NOT_FOUND", "session not found or expired")
	errMissingFile   = newAPIError(http.StatusBadRequest, "MISSING_PARAMETER", "multipart field \"file\" is required")
	errTooLarge      = newAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload exceeds the configured size limit")
	errInvalidUpload = newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "expected a multipart/form-data upload")
)

// pipelineError maps an ingest/clean failure to its HTTP form.
func pipelineError(err error) *APIError {
	var ve *dataset.ValidationError
	var pe *dataset.ParseError
	switch {
	case errors.As(err, &ve):
		e := newAPIError(http.StatusUnprocessableEntity, ve.Kind.String(), ve.Error())
		switch ve.Kind {
		case dataset.MissingColumns:
			e.Details = map[string]interface{}{"missing": ve.Columns, "expected": dataset.Required}
		case dataset.BadTimestamp:
			e.Details = map[string]interface{}{"row": ve.Row, "value": ve.Value}
		}
		return e
	case errors.As(err, &pe):
		return newAPIError(http.StatusBadRequest, "PARSE_FAILED", pe.Error())
	default:
		return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
