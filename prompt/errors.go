package prompt

import (
	"errors"
	"fmt"
)

// Sentinel errors for prompt documents.
var (
	// ErrSchema indicates a malformed document: bad envelope, wrong key
	// combination, or a declared-vs-discovered variable mismatch.
	ErrSchema = errors.New("invalid prompt document")

	// ErrNotFound indicates a requested dictionary entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownFormat indicates an unrecognized document format.
	ErrUnknownFormat = errors.New("unknown document format")
)

// SchemaError reports a document validation failure, naming the field
// that failed so errors stay debuggable.
type SchemaError struct {
	Field  string
	Detail string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid prompt document: %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("invalid prompt document: %s", e.Detail)
}

// Unwrap supports errors.Is(err, ErrSchema).
func (e *SchemaError) Unwrap() error { return ErrSchema }

func schemaErrorf(field, format string, args ...any) *SchemaError {
	return &SchemaError{Field: field, Detail: fmt.Sprintf(format, args...)}
}
