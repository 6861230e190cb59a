package core

import (
	"errors"
	"fmt"
)

// Kind categorizes contract errors.
type Kind string

const (
	// PreconditionViolation: pre evaluated false. Nothing was changed.
	PreconditionViolation Kind = "PRECONDITION_VIOLATION"

	// PostconditionViolation: post evaluated false. The target was rolled back;
	// objects committed by nested sends were not.
	PostconditionViolation Kind = "POSTCONDITION_VIOLATION"

	// HandlerFault: a stage returned an error or panicked, or the Msg was
	// incomplete. The target was rolled back as for a postcondition violation.
	HandlerFault Kind = "HANDLER_FAULT"
)

// Sentinels matched by ContractError.Is, one per Kind.
var (
	ErrPrecondition  = errors.New("precondition violation")
	ErrPostcondition = errors.New("postcondition violation")
	ErrHandlerFault  = errors.New("handler fault")
)

// ContractError reports why a send failed.
//
// A fault raised by a nested send surfaces as a HandlerFault of each enclosing
// dispatch, wrapping the nested error, so errors.Is(err, ErrPrecondition) still
// finds a precondition violation deep inside an effect.
type ContractError struct {
	// Kind identifies the error category.
	Kind Kind

	// Key is the key of the ID the failing send targeted.
	Key string

	// Message is the name of the failing message.
	Message string

	// Stage is the stage that failed: "msg", "pre", "apply", "effect" or "post".
	Stage string

	// Err is the underlying failure, if any.
	Err error
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s to %s failed in %s: %v", e.Kind, e.Message, e.Key, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s to %s failed in %s", e.Kind, e.Message, e.Key, e.Stage)
}

// Unwrap returns the underlying failure.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of e's Kind.
func (e *ContractError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case PreconditionViolation:
		return ErrPrecondition
	case PostconditionViolation:
		return ErrPostcondition
	case HandlerFault:
		return ErrHandlerFault
	}
	return nil
}

// IsPrecondition reports whether err is or wraps a precondition violation.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsPostcondition reports whether err is or wraps a postcondition violation.
func IsPostcondition(err error) bool {
	return errors.Is(err, ErrPostcondition)
}

// IsHandlerFault reports whether err is or wraps a handler fault.
func IsHandlerFault(err error) bool {
	return errors.Is(err, ErrHandlerFault)
}

// KindOf returns the Kind of the outermost ContractError in err's chain.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) (Kind, bool) {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// PanicError carries a value recovered from a panicking stage.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// DepthExceededError is the cause of the HandlerFault returned when nested
// sends go deeper than the store allows.
type DepthExceededError struct {
	Depth int // Depth of the refused dispatch
	Limit int // Maximum allowed depth
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("send depth %d exceeds limit %d", e.Depth, e.Limit)
}

// IsDepthExceeded reports whether err was caused by runaway nesting.
func IsDepthExceeded(err error) bool {
	var de *DepthExceededError
	return errors.As(err, &de)
}
