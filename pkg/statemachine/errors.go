package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownState   = errors.New("unknown state")
	ErrDuplicateState = errors.New("state declared twice")
	ErrNoStates       = errors.New("state machine has no states")
)

// ErrNoTransitionAvailable indicates no transition is defined between two states.
type ErrNoTransitionAvailable struct {
	From string
	To   string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' to state '%s'", e.From, e.To)
}

func NewErrNoTransitionAvailable(from, to string) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{From: from, To: to}
}

// ErrTransitionRejected indicates a guard blocked the transition.
type ErrTransitionRejected struct {
	From string
	To   string
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state '%s' to state '%s' was rejected by guards", e.From, e.To)
}

func NewErrTransitionRejected(from, to string) *ErrTransitionRejected {
	return &ErrTransitionRejected{From: from, To: to}
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
