// Package merge overlays partial configuration onto a base value.
//
// A patch field has three states: absent (keep the base), null (clear the
// base) or set (replace the base). Value models one such field for typed
// records; Maps applies the same rules to decoded JSON documents.
package merge

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	set   bool
	null  bool
	value T
}

func Set[T any](v T) Value[T] {
	return Value[T]{set: true, value: v}
}

func Null[T any]() Value[T] {
	return Value[T]{set: true, null: true}
}

func (v Value[T]) IsAbsent() bool { return !v.set }

func (v Value[T]) IsNull() bool { return v.set && v.null }

// Get returns the value only when it is set and not null.
func (v Value[T]) Get() (T, bool) {
	if !v.set || v.null {
		var zero T
		return zero, false
	}
	return v.value, true
}

// IsZero lets `omitzero` drop absent fields when encoding.
func (v Value[T]) IsZero() bool { return !v.set }

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.set || v.null {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON is only called for keys present in the document, so a
// missing key stays absent.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Null[T]()
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	*v = Set(val)
	return nil
}

// Apply overlays patch on a non-nullable base. Null yields the zero value.
func Apply[T any](base T, patch Value[T]) T {
	if !patch.set {
		return base
	}
	if patch.null {
		var zero T
		return zero
	}
	return patch.value
}

// ApplyNullable overlays patch on a nullable base. The result never aliases base.
func ApplyNullable[T any](base *T, patch Value[T]) *T {
	if !patch.set {
		if base == nil {
			return nil
		}
		cp := *base
		return &cp
	}
	if patch.null {
		return nil
	}
	cp := patch.value
	return &cp
}
