package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so the orchestration layer can log
// what went wrong before serving a fallback.
type ErrorKind string

const (
	// KindNotConfigured means no provider credential was present at startup.
	KindNotConfigured ErrorKind = "not_configured"
	// KindProvider means a configured call failed in flight (network, rate
	// limit, provider-side fault, timeout).
	KindProvider ErrorKind = "provider_error"
	// KindSchemaViolation means the provider answered with a payload that
	// does not conform to the requested schema.
	KindSchemaViolation ErrorKind = "schema_violation"
)

// InvocationError is the gateway's single error type.
type InvocationError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *InvocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ai %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("ai %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func newInvocationError(kind ErrorKind, op string, err error) *InvocationError {
	return &InvocationError{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the error kind from err, defaulting to KindProvider for
// anything that is not an InvocationError.
func KindOf(err error) ErrorKind {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindProvider
}
