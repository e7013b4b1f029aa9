package api

import (
	"errors"
	"fmt"
)

// Kind classifies backend-facing failures.
type Kind int

const (
	// KindTransport is a network failure: no HTTP response was received.
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx HTTP status.
	KindStatus
	// KindEnvelope is a 2xx response whose envelope reports success=false.
	KindEnvelope
	// KindShape is a response body that does not have the expected shape.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindEnvelope:
		return "envelope"
	case KindShape:
		return "shape"
	default:
		return "unknown"
	}
}

// Error is a failed API call.
type Error struct {
	Op        string // list, search, get, create, update, delete
	Kind      Kind
	Status    int    // HTTP status, 0 for transport failures
	Message   string // human-readable summary shown to the user
	RequestID string
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func statusError(op string, status int, serverMsg string) *Error {
	msg := fmt.Sprintf("HTTP error! Status: %d", status)
	if serverMsg != "" {
		msg += " (" + serverMsg + ")"
	}
	return &Error{Op: op, Kind: KindStatus, Status: status, Message: msg}
}

func shapeError(op string, msg string, err error) *Error {
	return &Error{Op: op, Kind: KindShape, Message: msg, Err: err}
}
