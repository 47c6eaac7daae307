package async

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout        = errors.New("async: operation timed out waiting for future completion")
	ErrNoFutures      = errors.New("async: Any called with empty futures slice")
	ErrAlreadySettled = errors.New("async: future is already settled")
	ErrNilError       = errors.New("async: future rejected with nil error")
	ErrNilFuture      = errors.New("async: nil future")
	ErrNilTask        = errors.New("async: nil task")
	ErrPoolClosed     = errors.New("async: pool is closed")
)

// PanicError carries a value recovered from a panicking callback.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: recovered panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func IsPanicError(err error) bool {
	var e *PanicError
	return errors.As(err, &e)
}
