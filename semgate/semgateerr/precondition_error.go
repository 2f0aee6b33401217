package semgateerr

import (
	"fmt"
)

// PreconditionError indicates that a module cannot be gated in its current state (e.g. the
// candidate artifact file is missing). These are recoverable: the caller decides whether to
// fail the build or warn and skip the module, in one place, based on the halt policy.
type PreconditionError struct {
	Reason string
}

// NewPreconditionError generates a new PreconditionError.
func NewPreconditionError(msgFormat string, args ...interface{}) *PreconditionError {
	return &PreconditionError{
		Reason: fmt.Sprintf(msgFormat, args...),
	}
}

func (e *PreconditionError) Error() string {
	return e.Reason
}
