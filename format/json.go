package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/stubgen/extract"
	"github.com/dhamidi/stubgen/typemodel"
)

// JSONEncoder writes the model together with the imports its stub needs.
type JSONEncoder struct {
	w     io.Writer
	class *extract.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *extract.ClassModel) error {
	e.class = class
	return encode(e.w, e)
}

type documentedClass struct {
	extract.ClassModel `yaml:",inline"`
	Imports            []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}

func newDocumentedClass(c *extract.ClassModel) documentedClass {
	return documentedClass{ClassModel: *c, Imports: importLines(c.Imports())}
}

func importLines(imports []typemodel.Import) []string {
	lines := make([]string, len(imports))
	for i, imp := range imports {
		lines[i] = imp.String()
	}
	return lines
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(newDocumentedClass(e.class), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
