package crud

import "reflect"

// Fields maps column names to new values for a partial update. Nil values,
// including typed nil pointers, mean "leave untouched".
type Fields map[string]any

func (f Fields) Compact() map[string]any {
	out := make(map[string]any, len(f))
	for column, value := range f {
		if value == nil {
			continue
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			value = rv.Elem().Interface()
		}
		out[column] = value
	}
	return out
}

func (f Fields) IsEmpty() bool {
	return len(f.Compact()) == 0
}
