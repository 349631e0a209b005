package clientformat

import "errors"

// Sentinel errors. Formatter failures wrap one of these so callers can
// branch with errors.Is.
var (
	// ErrUnsupportedClient is returned for client names no formatter is
	// registered under.
	ErrUnsupportedClient = errors.New("unsupported client")

	// ErrUnsupportedShape is returned when a prompt cannot be expressed
	// in the target client's request shape.
	ErrUnsupportedShape = errors.New("prompt shape unsupported by client")
)
