// Package validator walks generic JSON values while asserting their shape.
//
// A Value wraps one JSON value (as produced by a JSON decoder configured with
// UseNumber) together with the document name and the key path leading to it.
// Coercions either return a typed view of the same value or fail with a
// ValidationError whose message reads "<document><keypath> <defect>", for
// example `posts.json.attachments[0].data[0].event is not an object`.
package validator

import (
	"fmt"
	"iter"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/orgball2608/deface/pkg/errors"
)

// Value is a cursor over a JSON value. The zero Value wraps JSON null.
type Value struct {
	document string
	path     Path
	value    any
}

// New wraps the root value of the named document.
func New(value any, document string) Value {
	return Value{document: document, value: value}
}

// Raw returns the wrapped JSON value.
func (v Value) Raw() any {
	return v.value
}

// Document returns the name of the document the value belongs to.
func (v Value) Document() string {
	return v.document
}

// Path returns the key path from the document root to this value.
func (v Value) Path() Path {
	return v.path
}

// Describe formats a diagnostic about this value, prefixed with the document
// name and key path.
func (v Value) Describe(format string, args ...any) string {
	return v.document + v.path.String() + " " + fmt.Sprintf(format, args...)
}

// Invalid returns a validation error for this value.
func (v Value) Invalid(format string, args ...any) error {
	return errors.Invalid("%s", v.Describe(format, args...))
}

func (v Value) child(s step, value any) Value {
	return Value{document: v.document, path: v.path.with(s), value: value}
}

// ToInteger coerces the value to an integer.
func (v Value) ToInteger() (int64, error) {
	switch n := v.value.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return i, nil
		}
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, v.Invalid("is not an integer")
}

// ToFloat coerces the value to a floating point number. Integers qualify.
func (v Value) ToFloat() (float64, error) {
	switch n := v.value.(type) {
	case json.Number:
		if f, err := strconv.ParseFloat(string(n), 64); err == nil {
			return f, nil
		}
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, v.Invalid("is neither integer nor float")
}

// ToString coerces the value to a string.
func (v Value) ToString() (string, error) {
	if s, ok := v.value.(string); ok {
		return s, nil
	}
	return "", v.Invalid("is not a string")
}

// ToList coerces the value to a list.
func (v Value) ToList() (List, error) {
	items, ok := v.value.([]any)
	if !ok {
		return List{}, v.Invalid("is not a list")
	}
	return List{Value: v, items: items}, nil
}

// ToSingletonList coerces the value to a list with exactly one item.
func (v Value) ToSingletonList() (List, error) {
	list, err := v.ToList()
	if err != nil {
		return List{}, err
	}
	if list.Len() != 1 {
		return List{}, v.Invalid("is not a list with exactly one item")
	}
	return list, nil
}

// ToObject coerces the value to an object. With a non-nil key set, every field
// of the object must be a member of the set. Decoded objects do not keep their
// field order, so when several fields are unexpected the diagnostic names the
// alphabetically first one.
func (v Value) ToObject(keys KeySet) (Object, error) {
	fields, ok := v.value.(map[string]any)
	if !ok {
		return Object{}, v.Invalid("is not an object")
	}
	object := Object{Value: v, fields: fields}
	if keys != nil {
		for _, key := range object.Keys() {
			if !keys.Has(key) {
				return Object{}, v.Invalid("contains unexpected field %s", key)
			}
		}
	}
	return object, nil
}

// ToSingleton coerces the value to an object with exactly one field, which
// must be a member of the key set if the set is non-nil. It returns the
// object together with the field's name.
func (v Value) ToSingleton(keys KeySet) (Object, string, error) {
	fields, ok := v.value.(map[string]any)
	if !ok {
		return Object{}, "", v.Invalid("is not an object")
	}
	if len(fields) != 1 {
		return Object{}, "", v.Invalid("is not an object with a single field")
	}
	object, err := v.ToObject(keys)
	if err != nil {
		return Object{}, "", err
	}
	return object, object.Keys()[0], nil
}

// List is a Value known to hold a JSON array.
type List struct {
	Value
	items []any
}

// Len returns the number of items.
func (l List) Len() int {
	return len(l.items)
}

// Index returns the item at the given position. It panics if the index is
// out of range, like indexing a slice.
func (l List) Index(index int) Value {
	return l.child(step{index: index}, l.items[index])
}

// Items yields one cursor per item, in document order.
func (l List) Items() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for index, item := range l.items {
			if !yield(index, l.child(step{index: index}, item)) {
				return
			}
		}
	}
}

// Object is a Value known to hold a JSON object.
type Object struct {
	Value
	fields map[string]any
}

// Len returns the number of fields.
func (o Object) Len() int {
	return len(o.fields)
}

// Has reports whether the object has the named field.
func (o Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Keys returns the object's field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for key := range o.fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Field returns the named field. A missing field is a validation error;
// callers check Has first for optional fields.
func (o Object) Field(key string) (Value, error) {
	value, ok := o.fields[key]
	if !ok {
		return Value{}, o.Invalid("is missing required field %s", key)
	}
	return o.child(step{field: key, named: true}, value), nil
}

// KeySet is a set of valid field names.
type KeySet map[string]struct{}

// Keys creates a key set.
func Keys(names ...string) KeySet {
	set := make(KeySet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the name.
func (s KeySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}
