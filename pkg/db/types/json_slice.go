package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONSlice stores a slice as a JSON array column (jsonb on Postgres, text on
// SQLite).
type JSONSlice[T any] []T

func (s *JSONSlice[T]) Scan(src any) error {
	if src == nil {
		*s = JSONSlice[T]{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("JSONSlice: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		*s = JSONSlice[T]{}
		return nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("JSONSlice: decode: %w", err)
	}
	*s = JSONSlice[T](out)
	return nil
}

func (s JSONSlice[T]) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]T(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
