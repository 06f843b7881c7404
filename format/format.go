// Package format encodes extracted class models for inspection.
package format

import (
	"encoding"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/stubgen/extract"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *extract.ClassModel) error
}

// Names lists the formats NewEncoder accepts.
var Names = []string{"stub", "json", "yaml", "line"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "stub":
		return NewStubEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, errors.Newf("unknown format %q", name)
}

func encode(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
