package lifecycle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrTransitionInProgress = errors.New("a conversion of this record is already in progress")

// TransitionError reports a conversion whose first step succeeded and whose
// second step failed. Nothing is rolled back: the created row and the source
// row both persist.
type TransitionError struct {
	Transition string
	Step       string
	CreatedID  uuid.UUID
	SourceID   uuid.UUID
	Err        error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: created %s but %s of %s failed: %v", e.Transition, e.CreatedID, e.Step, e.SourceID, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }
