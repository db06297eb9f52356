package expense

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TagList is a set of free-form labels attached to a template or expense.
// It serializes to a JSON array column.
type TagList []string

// Value implements driver.Valuer for database serialization
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database deserialization
func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TagList", value)
	}

	if len(data) == 0 {
		*t = TagList{}
		return nil
	}
	return json.Unmarshal(data, t)
}

// Clone returns a copy so generated expenses do not share backing arrays
// with their template
func (t TagList) Clone() TagList {
	if t == nil {
		return nil
	}
	out := make(TagList, len(t))
	copy(out, t)
	return out
}
