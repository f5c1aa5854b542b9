package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRetrieval marks storage failures. Never swallowed: an unreachable
	// store must not look like "no matches".
	ErrRetrieval = errors.New("retrieval failure")

	ErrInvalidInput      = errors.New("invalid input")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
