// Package docindex bridges reflected overloads to per-class documentation
// records produced by a Javadoc JSON doclet.
package docindex

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Record is the documentation of one class.
type Record struct {
	Name       string       `json:"name"`
	Comment    string       `json:"comment"`
	Extends    string       `json:"extends,omitempty"`
	Implements References   `json:"implements,omitempty"`
	Methods    []MethodDesc `json:"methods"`
}

type MethodDesc struct {
	Name    string      `json:"name"`
	Comment string      `json:"comment"`
	Javadoc string      `json:"javadoc"`
	Static  bool        `json:"static,omitempty"`
	Params  []ParamDesc `json:"params"`
	Return  ReturnDesc  `json:"return"`
}

type ParamDesc struct {
	Name      string `json:"name"`
	TypeLong  string `json:"type_long"`
	TypeShort string `json:"type_short,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

type ReturnDesc struct {
	TypeLong  string `json:"type_long"`
	TypeShort string `json:"type_short,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// References is a list of class names that also decodes from a single
// JSON string.
type References []string

func (r *References) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*r = nil
		} else {
			*r = References{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.Wrap(err, "implements must be a string or a list of strings")
	}
	*r = many
	return nil
}

// DecodeRecord parses one JSON documentation record.
func DecodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "failed to decode documentation record")
	}
	return &rec, nil
}
