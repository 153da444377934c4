package study

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned by Start when no cards matched the
// selection. Recoverable: surface a message to the user, no session is
// started.
var ErrEmptySelection = errors.New("study: no cards selected")

// InvalidStateError reports an operation invoked while the session
// state machine forbids it. This is a programming defect in the caller,
// not a user-facing condition.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("study: %s called in %s state", e.Op, e.State)
}
