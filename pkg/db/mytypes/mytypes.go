package mytypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is stored as a json array.
type StringSlice []string

func (s *StringSlice) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = StringSlice{}
		return nil
	default:
		return fmt.Errorf("unsupported type %T for StringSlice", value)
	}
	return json.Unmarshal(data, s)
}

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}
