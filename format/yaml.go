package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/stubgen/extract"
)

type YAMLEncoder struct {
	w     io.Writer
	class *extract.ClassModel
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(class *extract.ClassModel) error {
	e.class = class
	return encode(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newDocumentedClass(e.class)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
