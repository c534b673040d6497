// Package load reads model descriptions and builds the schema registry
// consumed by the code generator.
//
// A description is a document holding the class declarations of a model:
//
//	classes:
//	  - name: RectangleNode
//	    declaration_only: true
//	    alloc: rengine.NewRectangleNode()
//	  - name: Row
//	    properties:
//	      - {name: width, type: number}
//	    root:
//	      id: root
//	      class: RectangleNode
//	      properties:
//	        width: {number: 100}
//
// JSON, YAML and MessagePack encodings carry the same fields.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"gopkg.in/yaml.v3"

	"github.com/syssam/rengen/schema"
)

// Description is a decoded model description.
type Description struct {
	Classes []*Class `json:"classes" yaml:"classes" msgpack:"classes"`
}

// Class is the description of a schema.Class.
type Class struct {
	Name            string            `json:"name" yaml:"name" msgpack:"name"`
	Include         string            `json:"include,omitempty" yaml:"include,omitempty" msgpack:"include,omitempty"`
	DeclarationOnly bool              `json:"declaration_only,omitempty" yaml:"declaration_only,omitempty" msgpack:"declaration_only,omitempty"`
	Alloc           string            `json:"alloc,omitempty" yaml:"alloc,omitempty" msgpack:"alloc,omitempty"`
	Properties      []schema.Property `json:"properties,omitempty" yaml:"properties,omitempty" msgpack:"properties,omitempty"`
	Signals         []schema.Signal   `json:"signals,omitempty" yaml:"signals,omitempty" msgpack:"signals,omitempty"`
	Functions       []schema.Function `json:"functions,omitempty" yaml:"functions,omitempty" msgpack:"functions,omitempty"`
	Resources       []schema.Resource `json:"resources,omitempty" yaml:"resources,omitempty" msgpack:"resources,omitempty"`
	Replicators     []*Replicator     `json:"replicators,omitempty" yaml:"replicators,omitempty" msgpack:"replicators,omitempty"`
	Root            *Object           `json:"root,omitempty" yaml:"root,omitempty" msgpack:"root,omitempty"`
}

// Object is the description of a schema.Object. Class names the object
// type in the registry.
type Object struct {
	ID         string            `json:"id" yaml:"id" msgpack:"id"`
	Class      string            `json:"class" yaml:"class" msgpack:"class"`
	Properties map[string]*Value `json:"properties,omitempty" yaml:"properties,omitempty" msgpack:"properties,omitempty"`
	Children   []*Object         `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// Value holds exactly one of a string literal, a number or a binding.
type Value struct {
	String  *string  `json:"string,omitempty" yaml:"string,omitempty" msgpack:"string,omitempty"`
	Number  *float64 `json:"number,omitempty" yaml:"number,omitempty" msgpack:"number,omitempty"`
	Binding *Binding `json:"binding,omitempty" yaml:"binding,omitempty" msgpack:"binding,omitempty"`
}

// Binding is the description of a schema.Binding.
type Binding struct {
	Expression   string              `json:"expression" yaml:"expression" msgpack:"expression"`
	Dependencies []schema.Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty" msgpack:"dependencies,omitempty"`
}

// Replicator is the description of a schema.Replicator.
type Replicator struct {
	ID          string `json:"id" yaml:"id" msgpack:"id"`
	Class       string `json:"class" yaml:"class" msgpack:"class"`
	Count       Count  `json:"count" yaml:"count" msgpack:"count"`
	Initializor string `json:"initializor,omitempty" yaml:"initializor,omitempty" msgpack:"initializor,omitempty"`
	Parent      string `json:"parent" yaml:"parent" msgpack:"parent"`
}

// Count is a replicator count. It decodes from a Value or a bare number.
type Count Value

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Count{Number: &n}
		return nil
	}
	return json.Unmarshal(b, (*Value)(c))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Count) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var n float64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("line %d: count must be a number: %w", node.Line, err)
		}
		*c = Count{Number: &n}
		return nil
	}
	return node.Decode((*Value)(c))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (c *Count) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32 {
		return dec.Decode((*Value)(c))
	}
	n, err := dec.DecodeFloat64()
	if err != nil {
		return fmt.Errorf("count must be a number: %w", err)
	}
	*c = Count{Number: &n}
	return nil
}

// Format identifies a description encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the format of a description file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("load: unknown description format %q", filepath.Ext(path))
	}
}

// Decode decodes a description from r.
func Decode(r io.Reader, format Format) (*Description, error) {
	d := &Description{}
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(d)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(d)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(d)
	default:
		return nil, fmt.Errorf("load: unknown description format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s description: %w", format, err)
	}
	return d, nil
}

// Encode encodes d to w.
func Encode(w io.Writer, d *Description, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(d)
	default:
		return fmt.Errorf("load: unknown description format %q", format)
	}
}

// File reads the description file at path and builds its registry.
func File(path string) (*schema.Registry, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	d, err := Decode(bytes.NewReader(buf), format)
	if err != nil {
		return nil, fmt.Errorf("%w (file: %s)", err, path)
	}
	return Build(d)
}
