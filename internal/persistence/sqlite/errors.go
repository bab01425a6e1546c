package sqlite

import (
	"fmt"

	"github.com/14-dg/roomfinder/internal/persistence"
)

func errNotFound() error {
	return persistence.ErrNotFound
}

func errDuplicate(cause error) error {
	return fmt.Errorf("%w: %v", persistence.ErrDuplicate, cause)
}

func errConstraint(cause error) error {
	return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, cause)
}
