package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context ends during a call.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrNoToken is returned when the token provider yields an empty token.
	ErrNoToken = errors.New("access token is empty")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 404 and 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassNotFound represents 404 responses.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassThrottled represents 429 Too Many Requests.
	ErrorClassThrottled ErrorClass = "throttled"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"
)

// classify maps an HTTP status to an error class. Statuses below 400 have
// no class.
func classify(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusNotFound:
		return ErrorClassNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassThrottled
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// shouldRetry determines if an error class is worth another attempt.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassThrottled, ErrorClassNetwork:
		return true
	default:
		return false
	}
}

// PartnerError is a failed Partner Center call.
type PartnerError struct {
	StatusCode int
	ErrorClass ErrorClass

	// Code and Description come from the Partner Center error body.
	Code        int
	Description string

	// RequestID is the MS-RequestId the request was sent with.
	RequestID string

	Err error
}

// Error implements the error interface.
func (e *PartnerError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	s := fmt.Sprintf("partner center %s error (status %d", e.ErrorClass, e.StatusCode)
	if e.Code != 0 {
		s += fmt.Sprintf(", code %d", e.Code)
	}
	s += "): " + msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *PartnerError) Unwrap() error {
	return e.Err
}

// errorBody is the JSON error document Partner Center returns.
type errorBody struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// newPartnerError builds a PartnerError from resp and consumes its body.
func newPartnerError(resp *http.Response, requestID string) *PartnerError {
	perr := &PartnerError{
		StatusCode: resp.StatusCode,
		ErrorClass: classify(resp.StatusCode),
		RequestID:  requestID,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		perr.Err = fmt.Errorf("read error body: %w", err)
		return perr
	}

	var body errorBody
	if len(data) > 0 && json.Unmarshal(data, &body) == nil {
		perr.Code = body.Code
		perr.Description = body.Description
	}
	return perr
}

// IsNotFound reports whether err is a Partner Center 404.
func IsNotFound(err error) bool {
	var perr *PartnerError
	return errors.As(err, &perr) && perr.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var perr *PartnerError
	if errors.As(err, &perr) {
		return perr.StatusCode
	}
	return 0
}
