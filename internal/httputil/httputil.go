// Package httputil provides utility functions for HTTP servers.
package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// MaxBodyBytes limits the size of decoded request bodies.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not valid JSON or does not match its schema.
var ErrInvalidBody = errors.New("invalid request body")

// BodyError describes why a request body was rejected.
type BodyError struct {
	Err     error
	Details []string
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidBody, e.Err)
}

func (e *BodyError) Unwrap() []error {
	return []error{ErrInvalidBody, e.Err}
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// EncodeJSON encodes v to JSON, sets status, and writes it to w.
func EncodeJSON[T any](w http.ResponseWriter, statusCode int, v T) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	return nil
}

// EncodeError writes an ErrorResponse. Details are taken from a *BodyError in err, if any.
func EncodeError(w http.ResponseWriter, statusCode int, msg string, err error) error {
	res := ErrorResponse{Error: msg}
	var bodyErr *BodyError
	if errors.As(err, &bodyErr) {
		res.Details = bodyErr.Details
	}

	return EncodeJSON(w, statusCode, res)
}

// DecodeValidJSON reads the body of r, validates it against schema and decodes it into T.
// All failures are reported as a *BodyError.
func DecodeValidJSON[T any](r *http.Request, schema *jsonschema.Schema) (T, error) {
	var v T

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return v, &BodyError{Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if len(body) > MaxBodyBytes {
		return v, &BodyError{Err: fmt.Errorf("body exceeds %d bytes", MaxBodyBytes)}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return v, &BodyError{Err: fmt.Errorf("failed to decode json: %w", err)}
	}

	if err = schema.Validate(inst); err != nil {
		return v, &BodyError{Err: errors.New("body does not match schema"), Details: validationDetails(err)}
	}

	if err = json.Unmarshal(body, &v); err != nil {
		return v, &BodyError{Err: fmt.Errorf("failed to decode json: %w", err)}
	}

	return v, nil
}

// validationDetails flattens a validation error into one message per failing leaf.
func validationDetails(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}

	var details []string
	var walk func(u jsonschema.OutputUnit)
	walk = func(u jsonschema.OutputUnit) {
		if u.Error != nil {
			loc := u.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			details = append(details, fmt.Sprintf("%s: %s", loc, u.Error.String()))
		}
		for _, e := range u.Errors {
			walk(e)
		}
	}
	walk(*verr.BasicOutput())

	if len(details) == 0 {
		return []string{verr.Error()}
	}

	return details
}
