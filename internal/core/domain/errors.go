package domain

import (
	"errors"
	"fmt"
)

var (
	ErrScanNotFound    = errors.New("scan not found")
	ErrStorage         = errors.New("image storage failure")
	ErrEngine          = errors.New("analysis engine failure")
	ErrSchemaViolation = errors.New("analysis schema violation")
	ErrConflict        = errors.New("conflicting scan state")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTemporary       = errors.New("temporary failure")
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
