package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrFetch matches every *FetchError.
	ErrFetch = errors.New("fetch failed")

	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("response is not valid JSON")
)

// ErrorClass represents a classification of fetch errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRedirect represents 3xx responses the client did not follow,
	// including a 304 with no cached entry to serve.
	ErrorClassRedirect ErrorClass = "redirect"

	// ErrorClassOther represents any other status outside 2xx.
	ErrorClassOther ErrorClass = "other"

	// ErrorClassNetwork represents transport errors (DNS, TLS, timeouts).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents bodies that are not JSON.
	ErrorClassDecode ErrorClass = "decode"
)

// FetchError is returned when a page request fails at the HTTP level.
// StatusCode is 0 for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Class      ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("GET %s: %s error: %v", e.URL, e.Class, e.Err)
	}
	return fmt.Sprintf("GET %s: %s error (status %d): %s", e.URL, e.Class, e.StatusCode, e.Status)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// DecodeError is returned when a page body cannot be parsed as JSON.
type DecodeError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("GET %s: %v: %v", e.URL, ErrDecode, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// classifyStatus maps an HTTP status to an ErrorClass. Only 2xx statuses
// have no class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status >= 300 && status < 400:
		return ErrorClassRedirect
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500 && status < 600:
		return ErrorClassServer
	default:
		return ErrorClassOther
	}
}
