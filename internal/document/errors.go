package document

import (
	"errors"
	"fmt"
)

// Domain errors for document generation

var (
	// Template errors
	ErrTemplateNotFound = errors.New("no template available for document kind")
	ErrUnknownKind      = errors.New("unknown document kind")

	// Input errors
	ErrNilCase = errors.New("case is required")
)

// RenderError reports a template engine failure: a malformed template or a
// data shape the template cannot absorb. Fatal to the request, the message
// carries the engine detail so an administrator can fix the template.
type RenderError struct {
	Kind    DocumentKind
	Stage   string
	Wrapped error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %s during %s: %v", e.Kind, e.Stage, e.Wrapped)
}

func (e *RenderError) Unwrap() error { return e.Wrapped }

// ConversionError reports a failed native-to-PDF conversion. The native
// buffer is kept so a caller can fall back to delivering the unconverted
// document.
type ConversionError struct {
	Wrapped      error
	NativeOutput []byte
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("pdf conversion failed: %v", e.Wrapped)
}

func (e *ConversionError) Unwrap() error { return e.Wrapped }
