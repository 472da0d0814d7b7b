package rf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a request or code is malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError reports which argument is invalid.
type ArgumentError struct {
	Arg    string
	Reason string
}

// Error implements error.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Arg, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) true.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
