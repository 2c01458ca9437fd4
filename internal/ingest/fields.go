package ingest

import "github.com/orgball2608/deface/internal/validator"

// fields reads the fields of one object in declaration order. The first
// defect sticks: later reads become no-ops, so the first defect encountered
// is the one reported.
type fields struct {
	validator.Object
	err error
}

func read(v validator.Value, keys validator.KeySet) (*fields, error) {
	object, err := v.ToObject(keys)
	if err != nil {
		return nil, err
	}
	return &fields{Object: object}, nil
}

func (f *fields) field(key string) (validator.Value, bool) {
	if f.err != nil {
		return validator.Value{}, false
	}
	value, err := f.Field(key)
	if err != nil {
		f.err = err
		return validator.Value{}, false
	}
	return value, true
}

func required[T any](f *fields, key string, coerce func(validator.Value) (T, error)) T {
	var zero T
	value, ok := f.field(key)
	if !ok {
		return zero
	}
	result, err := coerce(value)
	if err != nil {
		f.err = err
		return zero
	}
	return result
}

func optional[T any](f *fields, key string, coerce func(validator.Value) (T, error)) *T {
	if f.err != nil || !f.Has(key) {
		return nil
	}
	result := required(f, key, coerce)
	if f.err != nil {
		return nil
	}
	return &result
}

func (f *fields) string(key string) string {
	return required(f, key, validator.Value.ToString)
}

func (f *fields) integer(key string) int64 {
	return required(f, key, validator.Value.ToInteger)
}

func (f *fields) float(key string) float64 {
	return required(f, key, validator.Value.ToFloat)
}

func (f *fields) optionalString(key string) *string {
	return optional(f, key, validator.Value.ToString)
}

func (f *fields) optionalInteger(key string) *int64 {
	return optional(f, key, validator.Value.ToInteger)
}

func (f *fields) optionalFloat(key string) *float64 {
	return optional(f, key, validator.Value.ToFloat)
}

// each decodes the items of an optional list field.
func each[T any](f *fields, key string, decode func(validator.Value) (T, error)) []T {
	if f.err != nil || !f.Has(key) {
		return nil
	}
	value, _ := f.field(key)
	list, err := value.ToList()
	if err != nil {
		f.err = err
		return nil
	}
	var result []T
	for _, item := range list.Items() {
		decoded, err := decode(item)
		if err != nil {
			f.err = err
			return nil
		}
		result = append(result, decoded)
	}
	return result
}
