package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yope/ethereum-contract/internal/contracts"
	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/internal/registry"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Envelope is the response wrapper for all API payloads.
type Envelope struct {
	Response interface{} `json:"response,omitempty"`
	Code     int         `json:"code"`
	Message  string      `json:"message,omitempty"`
}

// RequestError wraps an error with the HTTP status it should map to.
// Handlers use it for conditions the generic mapping can't classify,
// bad request bodies mostly.
type RequestError struct {
	Err    error
	Status int
}

// NewRequestError returns a RequestError for the given status.
func NewRequestError(err error, status int) error {
	return &RequestError{Err: err, Status: status}
}

func (re *RequestError) Error() string {
	return re.Err.Error()
}

// Respond writes the data wrapped in the response envelope.
func Respond(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) error {
	if v, ok := ctx.Value(KeyValues).(*Values); ok {
		v.StatusCode = statusCode
	}

	env := Envelope{
		Response: data,
		Code:     statusCode,
		Message:  "OK",
	}

	body, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "marshal response")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
	return nil
}

// Error handles all error responses for the API, mapping known causes to
// their status codes.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)

	if v, ok := ctx.Value(KeyValues).(*Values); ok {
		v.StatusCode = status
		v.Error = true
	}

	if status == http.StatusInternalServerError {
		logger.NewLoggerFromContext(ctx).Error("Request failed", zap.Error(err))
	}

	env := Envelope{
		Code:    status,
		Message: err.Error(),
	}

	body, mErr := json.Marshal(env)
	if mErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func statusFor(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}

	switch errors.Cause(err) {
	case contracts.ErrGasExceeded:
		return http.StatusBadRequest
	case contracts.ErrNoSuchMethod:
		return http.StatusNotFound
	case registry.ErrNotFound:
		return http.StatusNotFound
	case contracts.ErrNotCompiled:
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
