package fragment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a fragment contains no drawable primitive.
	ErrEmpty = errors.New("fragment: no drawable content")

	// ErrUnsupportedElement is returned for elements outside the
	// supported drawing vocabulary (script, image, foreignObject, ...).
	ErrUnsupportedElement = errors.New("fragment: unsupported element")

	// ErrBadPaint is returned for a fill or stroke that cannot be resolved.
	ErrBadPaint = errors.New("fragment: unresolvable paint")

	// ErrBadPathData is returned for malformed path "d" attributes.
	ErrBadPathData = errors.New("fragment: malformed path data")
)

// SyntaxError reports malformed fragment markup.
type SyntaxError struct {
	Offset int64 // byte offset into the fragment, if known
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("fragment: syntax error at offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
