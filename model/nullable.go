package model

import (
	"encoding/json"
)

// Nullable is an optional field of a partial update. The zero value is
// omitted from the payload (with the omitzero tag), Null() sends an explicit
// JSON null and Some sends a value.
type Nullable[T any] struct {
	set   bool
	value *T
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{set: true, value: &v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{set: true}
}

func (n Nullable[T]) IsZero() bool {
	return !n.set
}

// Get reports the value and whether it is non-null.
func (n Nullable[T]) Get() (T, bool) {
	if n.value == nil {
		var zero T
		return zero, false
	}
	return *n.value, true
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.set = true
	if string(data) == "null" {
		n.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.value = &v
	return nil
}
