// File: /models/types.go
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONBlob is a raw JSON document stored in a json column. It is kept
// undecoded so that a malformed stored value never breaks a row scan.
type JSONBlob []byte

// Value implements driver.Valuer interface for database storage
func (j JSONBlob) Value() (driver.Value, error) {
	if j.IsEmpty() {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (j *JSONBlob) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append(JSONBlob(nil), v...)
		return nil
	case string:
		*j = JSONBlob(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONBlob", value)
	}
}

// GormDataType returns the data type for GORM
func (JSONBlob) GormDataType() string {
	return "json"
}

// MarshalJSON emits the stored document, or null when it is empty or invalid.
func (j JSONBlob) MarshalJSON() ([]byte, error) {
	if j.IsEmpty() || !json.Valid(j) {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (j *JSONBlob) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*j = nil
		return nil
	}
	*j = append(JSONBlob(nil), data...)
	return nil
}

// IsEmpty reports whether the blob holds nothing or a JSON null.
func (j JSONBlob) IsEmpty() bool {
	trimmed := bytes.TrimSpace(j)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
