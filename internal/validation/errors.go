package validation

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInvalidSide        = errors.New("invalid side")
	ErrInvalidOrderType   = errors.New("invalid order type")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidTimeInForce = errors.New("invalid time in force")
)

// Error is a rejected trade-intent field. It never reaches the network.
type Error struct {
	Field  string
	Value  any
	Reason string
	Kind   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Kind, e.Field, e.Value, e.Reason)
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, field string, value any, reason string) *Error {
	return &Error{Field: field, Value: value, Reason: reason, Kind: kind}
}
