package model

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// Tags is the experiments.tags list. It is written as a JSON array, but rows
// entered before the API existed may hold comma separated text, so Scan
// accepts both. An empty or NULL column reads as no tags.
type Tags []string

func (t *Tags) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into Tags", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = nil
		return nil
	}

	if strings.HasPrefix(raw, "[") || raw == "null" {
		var list datatypes.JSONSlice[string]
		if err := list.Scan(raw); err == nil {
			*t = Tags(list)
			return nil
		}
	}

	*t = splitTags(raw)
	return nil
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return datatypes.JSONSlice[string](t).Value()
}

func splitTags(raw string) Tags {
	var tags Tags
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
