package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// nullableFloatToValue converts a *float64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the float value.
func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// parseNullableFloat converts a sql.NullFloat64 into a *float64.
func parseNullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// nullableJSON marshals v for a TEXT column. A nil pointer is stored as NULL.
func nullableJSON(v any, isNil bool) (interface{}, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding json column: %w", err)
	}
	return string(b), nil
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
