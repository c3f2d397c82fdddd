package adapter

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// Field is a single form input.
type Field struct {
	Name  string
	Value string
}

// FieldSet is an ordered set of form fields. Adding an existing name replaces
// its value in place, so insertion order is stable within one build.
type FieldSet struct {
	fields []Field
	index  map[string]int
}

// NewFieldSet creates an empty FieldSet.
func NewFieldSet() *FieldSet {
	return &FieldSet{index: make(map[string]int)}
}

// Add sets name to value.
func (fs *FieldSet) Add(name, value string) {
	if i, ok := fs.index[name]; ok {
		fs.fields[i].Value = value
		return
	}
	fs.index[name] = len(fs.fields)
	fs.fields = append(fs.fields, Field{Name: name, Value: value})
}

// Get returns the value for name, or "".
func (fs *FieldSet) Get(name string) string {
	if i, ok := fs.index[name]; ok {
		return fs.fields[i].Value
	}
	return ""
}

// Has reports whether name was added.
func (fs *FieldSet) Has(name string) bool {
	_, ok := fs.index[name]
	return ok
}

func (fs *FieldSet) Len() int { return len(fs.fields) }

// Names returns the field names in insertion order.
func (fs *FieldSet) Names() []string {
	names := make([]string, 0, len(fs.fields))
	for _, f := range fs.fields {
		names = append(names, f.Name)
	}
	return names
}

// Fields returns a copy of the fields in insertion order.
func (fs *FieldSet) Fields() []Field {
	out := make([]Field, len(fs.fields))
	copy(out, fs.fields)
	return out
}

// Values converts the set to url.Values for posting.
func (fs *FieldSet) Values() url.Values {
	v := make(url.Values, len(fs.fields))
	for _, f := range fs.fields {
		v.Set(f.Name, f.Value)
	}
	return v
}

// String renders the set as {k=v,...} for diagnostics.
func (fs *FieldSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range fs.fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(f.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the set as a JSON object, keeping insertion order.
func (fs *FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
