package model

import "encoding/json"

// Field is a partial-update value that distinguishes three caller intents:
// the key was absent (Set=false), the key was explicitly null (Set=true,
// Valid=false, which clears the column), or a value was supplied (Set=true,
// Valid=true). Patch structs use it so handlers never have to inspect raw
// JSON maps to tell "unsupplied" from "null".
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer, nil when the field was null.
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
