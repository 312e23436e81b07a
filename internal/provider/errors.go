package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a provider failure for logging and reporting.
type Kind string

const (
	KindNetwork     Kind = "network"
	KindRateLimit   Kind = "rate_limit"
	KindAuth        Kind = "auth"
	KindBadResponse Kind = "bad_response"
)

// Error is the only error type adapter operations return. The loop treats
// every Kind the same way (fallback or exhaustion); Kind exists for logs
// and the processing report.
type Error struct {
	Provider string
	Op       string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %s: %v", e.Provider, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps a transport-level failure, classifying it from the error text.
func newError(providerName, op string, err error) *Error {
	return &Error{Provider: providerName, Op: op, Kind: classify(err), Err: err}
}

// badResponse wraps a response the model produced but we could not use.
func badResponse(providerName, op string, err error) *Error {
	return &Error{Provider: providerName, Op: op, Kind: KindBadResponse, Err: err}
}

func classify(err error) Kind {
	if err == nil {
		return KindNetwork
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		strings.Contains(msg, "rate limit"):
		return KindRateLimit
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "API key"),
		strings.Contains(msg, "api key"),
		strings.Contains(msg, "PERMISSION_DENIED"):
		return KindAuth
	default:
		return KindNetwork
	}
}

// AsError extracts the typed provider error from a wrapped chain.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
