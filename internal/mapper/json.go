package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// toJSON marshals embedded documents into a jsonb column value. A nil
// or empty collection maps to SQL NULL rather than "null".
func toJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil
	}
	return datatypes.JSON(data)
}

// fromJSON unmarshals a jsonb column into target, leaving target's
// zero value in place for NULL columns.
func fromJSON(data datatypes.JSON, target any) {
	if len(data) == 0 {
		return
	}
	// Corrupt column contents surface as zero values, not errors; the
	// column is only ever written by toJSON.
	_ = json.Unmarshal(data, target)
}
