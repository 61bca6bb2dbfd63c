package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	perrors "github.com/matzehuels/puncta/pkg/errors"
)

// DefaultMaxBodyBytes limits request bodies read by DecodeJSON.
const DefaultMaxBodyBytes = 32 << 20

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and a user message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err with the status implied by its error code.
// Errors without a code are reported as internal errors.
func WriteError(w http.ResponseWriter, err error) error {
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	return WriteJSON(w, perrors.HTTPStatus(err), ErrorBody{Error: ErrorDetail{
		Code:    string(code),
		Message: perrors.UserMessage(err),
	}})
}

// DecodeJSON decodes the request body into v. Bodies larger than maxBytes
// (DefaultMaxBodyBytes when <= 0), unknown fields, and trailing data are
// rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", maxBytes)
		case errors.Is(err, io.EOF):
			return perrors.New(perrors.ErrCodeInvalidInput, "request body is empty")
		default:
			return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return perrors.New(perrors.ErrCodeInvalidInput, "unexpected data after JSON body")
	}
	return nil
}

// Decode decodes one JSON value from r.
func Decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
