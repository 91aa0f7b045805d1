package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Optional is a patch field that is either present (with a value) or absent.
// The zero value is absent.
//
// For nullable record fields use a pointer type: Some[*int](nil) is a present
// field that clears the value, while the zero Optional[*int] leaves it alone.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present field holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether the field is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the field is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value when present and fallback otherwise.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// UnmarshalJSON marks the field present. encoding/json only calls it when the
// key appears in the input. An explicit null is a present nil for nullable
// types and ErrNotNullable for everything else.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if !nullable(reflect.TypeFor[T]()) {
			return fmt.Errorf("%s field: %w", reflect.TypeFor[T](), ErrNotNullable)
		}
	} else if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
