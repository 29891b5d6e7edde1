// Package accessor is the runtime part of generated accessors: value guards and
// bidirectional relationship maintenance.
package accessor

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrOutOfRange = errors.New("out of range")
	ErrTooLong    = errors.New("too long")
	ErrNull       = errors.New("null value")
	ErrPrecision  = errors.New("precision exceeded")
)

// NotFound reports an unset required relationship.
func NotFound(field string) error {
	return errors.Wrapf(ErrNotFound, "field %s", field)
}
