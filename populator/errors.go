package populator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for populator operations.
var (
	// ErrUnknownPopulator indicates the requested engine is not registered.
	ErrUnknownPopulator = errors.New("unknown populator")

	// ErrUnknownSecurityLevel indicates an unrecognized security level.
	ErrUnknownSecurityLevel = errors.New("unknown security level")

	// ErrSyntax indicates the template itself is malformed.
	ErrSyntax = errors.New("template syntax error")

	// ErrMissingVariable indicates a valid template was populated without
	// all of its required bindings.
	ErrMissingVariable = errors.New("required variable missing")

	// ErrRender indicates evaluation failed during population.
	ErrRender = errors.New("template render error")
)

// SyntaxError reports malformed placeholder or control-construct syntax,
// naming the offending fragment.
type SyntaxError struct {
	Fragment string
	Detail   string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("template syntax error in %q: %s", e.Fragment, e.Detail)
	}
	return fmt.Sprintf("template syntax error in %q", e.Fragment)
}

// Unwrap supports errors.Is(err, ErrSyntax).
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// MissingVariablesError reports every variable a population call omitted,
// not just the first one encountered. Missing is sorted.
type MissingVariablesError struct {
	Missing []string
}

// Error implements the error interface.
func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("required variables missing: %s", strings.Join(e.Missing, ", "))
}

// Unwrap supports errors.Is(err, ErrMissingVariable).
func (e *MissingVariablesError) Unwrap() error { return ErrMissingVariable }

// RenderError reports an evaluation-time failure, such as indexing a key
// that does not exist inside a structured binding.
type RenderError struct {
	Detail string
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("template render error: %s", e.Detail)
}

// Unwrap supports errors.Is(err, ErrRender).
func (e *RenderError) Unwrap() error { return ErrRender }

func renderErrorf(format string, args ...any) *RenderError {
	return &RenderError{Detail: fmt.Sprintf(format, args...)}
}
