package quill

import "errors"

// Sentinel errors returned by world operations. They are wrapped with
// context, so match them with errors.Is.
var (
	// ErrUnknownBody reports an id that does not resolve to a live body,
	// either because it was removed or because it never existed.
	ErrUnknownBody = errors.New("quill: unknown body id")

	// ErrUnknownField reports a gravity field id that does not resolve.
	ErrUnknownField = errors.New("quill: unknown field id")

	// ErrInvalidConfig rejects an unusable world configuration.
	ErrInvalidConfig = errors.New("quill: invalid world configuration")

	// ErrInvalidBody rejects an unusable body definition.
	ErrInvalidBody = errors.New("quill: invalid body definition")
)
