package capabilities

import (
	"errors"
	"fmt"
)

// ErrMissingQuestion indicates an image-to-vqa conversion whose payload did
// not carry a question. If returned in conjunction with an HTTP request, it
// should be paired with a 400 response status.
var ErrMissingQuestion = errors.New("missing question for image to vqa conversion")

// UnsupportedConversionError indicates an (input, output) kind pair outside
// the conversion table.
type UnsupportedConversionError struct {
	// Input is the requested input kind.
	Input string
	// Output is the requested output kind.
	Output string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported conversion %s->%s", e.Input, e.Output)
}
