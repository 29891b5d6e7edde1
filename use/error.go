package use

import (
	"fmt"
)

func Err(message string) *Error {
	return &Error{message: message}
}

// FieldErr describes a failure related to a field of an entity type.
func FieldErr(entity, field string, cause error) *Error {
	return &Error{message: "invalid mapping", entity: entity, field: field, cause: cause}
}

type Error struct {
	message string

	entity string
	field  string
	cause  error
}

func (e *Error) Error() string {
	m := e.message
	if len(e.entity) > 0 {
		m += fmt.Sprintf(" entity: %s", e.entity)
	}
	if len(e.field) > 0 {
		m += fmt.Sprintf(" field: %s", e.field)
	}
	if e.cause != nil {
		m += "; " + e.cause.Error()
	}
	return m
}

func (e *Error) Unwrap() error {
	return e.cause
}
