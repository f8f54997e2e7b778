package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentType is wrapped by every ArgumentTypeError.
	ErrArgumentType = errors.New("invalid variable type")

	// ErrMissingVariable is returned when a required variable is absent.
	ErrMissingVariable = errors.New("missing required variable")

	// ErrInvalidCIDR is returned for unparseable or out of range blocks.
	ErrInvalidCIDR = errors.New("invalid cidr")

	// ErrInvalidNamespace is returned when the namespace cannot form a logical ID.
	ErrInvalidNamespace = errors.New("invalid namespace")
)

// ArgumentTypeError reports a variable holding a value of the wrong type.
type ArgumentTypeError struct {
	Variable string
	Want     string
	Value    any
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("fatal: %s must be %s. received '%v'", e.Variable, e.Want, e.Value)
}

func (e *ArgumentTypeError) Unwrap() error {
	return ErrArgumentType
}
