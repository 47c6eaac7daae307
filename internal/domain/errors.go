package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested record id has no matching entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed input such as an unknown status.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFound returns an error wrapping ErrNotFound for the given entity kind and id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// RootCause follows Unwrap chains to the innermost error. For errors wrapping
// several others, such as fmt.Errorf("%w: %w", kind, err) or errors.Join, the
// walk continues with the last one.
func RootCause(err error) error {
	for err != nil {
		var next error
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			if errs := u.Unwrap(); len(errs) > 0 {
				next = errs[len(errs)-1]
			}
		default:
			next = errors.Unwrap(err)
		}
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}
