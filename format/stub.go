package format

import (
	"io"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/stub"
)

// StubEncoder writes the .pyi text of a top-level class.
type StubEncoder struct {
	w     io.Writer
	class *extract.ClassModel
}

func NewStubEncoder(w io.Writer) *StubEncoder {
	return &StubEncoder{w: w}
}

func (e *StubEncoder) Encode(class *extract.ClassModel) error {
	e.class = class
	return encode(e.w, e)
}

func (e *StubEncoder) MarshalText() ([]byte, error) {
	return []byte(stub.RenderClass(e.class)), nil
}
