package sdk

import (
	"encoding/json"
	"reflect"
)

// Wildcard is the node name that applies a sub-template to every element of
// a collection.
const Wildcard = "*"

// Node is one entry of a Template: a bare field when Children is nil,
// otherwise a nested field (or the Wildcard) shaped by Children.
type Node struct {
	Name     string
	Children Template
}

// Field declares a bare field.
func Field(name string) Node {
	return Node{Name: name}
}

// Fields declares several bare fields.
func Fields(names ...string) []Node {
	nodes := make([]Node, len(names))
	for i, name := range names {
		nodes[i] = Field(name)
	}
	return nodes
}

// Object declares a nested field shaped by the given nodes.
func Object(name string, children ...Node) Node {
	return Node{Name: name, Children: NewTemplate(children...)}
}

// Each declares the wildcard node.
func Each(children ...Node) Node {
	return Object(Wildcard, children...)
}

// IsNested reports whether the node recurses into a sub-template.
func (n Node) IsNested() bool {
	return n.Children != nil
}

// IsWildcard reports whether the node maps over a collection.
func (n Node) IsWildcard() bool {
	return n.Name == Wildcard && n.IsNested()
}

// Template selects the fields of a Record transmitted for one operation.
// A nil Template passes data through unchanged; an empty non-nil Template
// selects nothing. Templates are immutable once built.
type Template []Node

// NewTemplate builds a Template from nodes. The result is never nil.
func NewTemplate(nodes ...Node) Template {
	return append(Template{}, nodes...)
}

// With returns a new Template extended by nodes. A nested node replaces a
// nested node of the same name in place; everything else is appended.
func (t Template) With(nodes ...Node) Template {
	out := NewTemplate(t...)
	for _, n := range nodes {
		replaced := false
		if n.IsNested() {
			for i, existing := range out {
				if existing.IsNested() && existing.Name == n.Name {
					out[i] = n
					replaced = true
					break
				}
			}
		}
		if !replaced {
			out = append(out, n)
		}
	}
	return out
}

// FieldNames returns the names of the bare fields at the top level.
func (t Template) FieldNames() []string {
	var names []string
	for _, n := range t {
		if !n.IsNested() {
			names = append(names, n.Name)
		}
	}
	return names
}

// Shape filters data down to the fields declared in t.
//
//   - bare field: copied when present and not empty (see IsEmpty)
//   - nested field: shaped recursively when present, even if empty
//   - wildcard: every element of a sequence (or every value of a mapping)
//     is shaped by the sub-template; order and keys are preserved
//
// Unknown fields are dropped and no values are coerced. Shape never modifies
// data. Non-collection data under a non-nil template yields an empty Record.
func Shape(data any, t Template) any {
	if t == nil {
		return data
	}
	switch d := data.(type) {
	case *Record:
		return shapeRecord(d, t)
	case map[string]any:
		rec, _ := normalizeValue(d).(*Record)
		return shapeRecord(rec, t)
	case []any:
		return shapeSequence(d, t)
	}
	return NewRecord()
}

// ShapeRecord is Shape for the common Record-in, Record-out case.
func ShapeRecord(data *Record, t Template) *Record {
	if t == nil {
		return data
	}
	return shapeRecord(data, t)
}

func shapeRecord(data *Record, t Template) *Record {
	out := NewRecord()
	for _, n := range t {
		switch {
		case n.IsNested() && data.Has(n.Name):
			out.Set(n.Name, Shape(data.Value(n.Name), n.Children))
		case n.IsWildcard():
			data.Range(func(key string, value any) bool {
				out.Set(key, Shape(value, n.Children))
				return true
			})
		case !n.IsNested():
			if v, ok := data.Get(n.Name); ok && !IsEmpty(v) {
				out.Set(n.Name, v)
			}
		}
	}
	return out
}

// shapeSequence only honours wildcard nodes; named fields never match
// sequence positions.
func shapeSequence(data []any, t Template) []any {
	var out []any
	for _, n := range t {
		if !n.IsWildcard() {
			continue
		}
		out = make([]any, len(data))
		for i, item := range data {
			out[i] = Shape(item, n.Children)
		}
	}
	if out == nil {
		out = []any{}
	}
	return out
}

// IsEmpty reports whether a value counts as absent for bare template fields:
// nil, false, numeric zero, "", "0", and empty collections.
//
// Zero and "0" are therefore never sent for bare fields. Send such values
// through an action endpoint or a nil template when they matter.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == "" || x == "0"
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case *Record:
		return x.Len() == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
