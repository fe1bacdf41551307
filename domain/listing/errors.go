package listing

import "fmt"

// MissingFieldError is returned when a required metadata field is absent.
type MissingFieldError struct {
	Field Field
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Field)
}

// DuplicateError is returned when a denom or symbol is already in use.
type DuplicateError struct {
	Key string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("duplicate listing found for %s", e.Key)
}

// NotFoundError is returned when a denom or symbol is not listed.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("listing not found for %s", e.Key)
}
