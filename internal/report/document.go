// # internal/report/document.go
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is an ordered nested key/value structure. Field order is
// insertion order and survives flattening and every export format, so
// downstream consumers see stable column and key ordering.
type Document struct {
	fields []Field
}

type Field struct {
	Key   string
	Value any // string, int, int64, float64, bool, *Document or []*Document
}

func New() *Document {
	return &Document{}
}

// Set appends a field, preserving insertion order. Setting an existing key
// replaces the value in place without reordering.
func (d *Document) Set(key string, value any) *Document {
	for i := range d.fields {
		if d.fields[i].Key == key {
			d.fields[i].Value = value
			return d
		}
	}
	d.fields = append(d.fields, Field{Key: key, Value: value})
	return d
}

func (d *Document) Fields() []Field {
	return d.fields
}

func (d *Document) Get(key string) (any, bool) {
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// KV is one flattened entry with a dotted key path.
type KV struct {
	Key   string
	Value any
}

// Flatten walks the document depth-first and emits dotted keys in stable
// field order. List children flatten with a zero-based index segment.
func (d *Document) Flatten() []KV {
	var out []KV
	flattenInto("", d, &out)
	return out
}

func flattenInto(prefix string, d *Document, out *[]KV) {
	for _, f := range d.fields {
		key := f.Key
		if prefix != "" {
			key = prefix + "." + f.Key
		}
		switch v := f.Value.(type) {
		case *Document:
			flattenInto(key, v, out)
		case []*Document:
			for i, child := range v {
				flattenInto(fmt.Sprintf("%s.%d", key, i), child, out)
			}
		default:
			*out = append(*out, KV{Key: key, Value: f.Value})
		}
	}
}

// MarshalJSON emits the document as a JSON object with fields in insertion
// order. Scalar values go through encoding/json, which applies the standard
// control-character and quote escaping.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON renders the document as indented JSON.
func (d *Document) EncodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
