package github

import (
	"encoding/json"
	"fmt"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors, where no
	// well-formed response was received at all.
	ErrorClassNetwork ErrorClass = "network"
)

// APIError represents a non-success response from the GitHub API.
// Payload carries the parsed JSON error body; it is meant for server-side
// logging and is never interpreted by the engine.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Payload    any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("github %s error (status %d)", e.ErrorClass, e.StatusCode)
}

// RequestError represents a transport-level failure (timeout, connection
// reset, cancellation). It is distinct from APIError: the remote service
// never produced a response.
type RequestError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("github request to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an error class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// newAPIError builds an APIError from a non-success response body.
// Non-JSON bodies are kept verbatim as a string payload.
func newAPIError(status int, body []byte) *APIError {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = string(body)
	}

	return &APIError{
		StatusCode: status,
		ErrorClass: classifyStatus(status),
		Payload:    payload,
	}
}
