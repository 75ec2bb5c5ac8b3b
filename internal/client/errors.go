package client

import (
	"errors"
	"fmt"
)

type Operation string

const (
	OpRegister Operation = "register"
	OpLogin    Operation = "login"
	OpUpload   Operation = "upload"
	OpSearch   Operation = "search"
)

// Fallback is the text shown when the operation could not complete.
func (o Operation) Fallback() string {
	switch o {
	case OpRegister:
		return "Error during registration"
	case OpLogin:
		return "Error during login"
	case OpUpload:
		return "Error during upload"
	case OpSearch:
		return "Error during search"
	default:
		return "Something went wrong"
	}
}

// TransportError means no response reached us: connection refused, DNS,
// timeout, cancelled context, truncated body.
type TransportError struct {
	Op  Operation
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the backend answered with something that is not JSON.
type DecodeError struct {
	Op         Operation
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: undecodable response (status %d): %v", e.Op, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FailedOperation reports which operation err belongs to, if it is one of
// this package's failures.
func FailedOperation(err error) (Operation, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Op, true
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Op, true
	}
	return "", false
}
