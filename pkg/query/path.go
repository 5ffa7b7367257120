package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a dot-separated field path such as "address.city" or "tags.0".
type Path []string

// ParsePath splits a dot path; a leading dot and empty segments are ignored.
func ParsePath(path string) Path {
	var parts Path
	for _, part := range strings.Split(strings.TrimPrefix(path, "."), ".") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Extract walks the path through nested objects and arrays. "*" fans out
// over every element of an array or object.
func (p Path) Extract(data interface{}) (interface{}, error) {
	if len(p) == 0 {
		return data, nil
	}
	part, rest := p[0], p[1:]

	switch v := data.(type) {
	case map[string]interface{}:
		if part == "*" {
			results := make([]interface{}, 0, len(v))
			for _, item := range v {
				if val, err := rest.Extract(item); err == nil {
					results = append(results, val)
				}
			}
			return results, nil
		}
		val, ok := v[part]
		if !ok {
			return nil, fmt.Errorf("key '%s' not found", part)
		}
		return rest.Extract(val)

	case []interface{}:
		if part == "*" {
			results := make([]interface{}, 0, len(v))
			for _, item := range v {
				if val, err := rest.Extract(item); err == nil {
					results = append(results, val)
				}
			}
			return results, nil
		}
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid array index '%s'", part)
		}
		if idx < 0 || idx >= len(v) {
			return nil, fmt.Errorf("array index %d out of bounds", idx)
		}
		return rest.Extract(v[idx])

	default:
		return nil, fmt.Errorf("cannot access '%s' on type %T", part, data)
	}
}

// Extract is shorthand for ParsePath(path).Extract(record).
func Extract(record map[string]interface{}, path string) (interface{}, error) {
	return ParsePath(path).Extract(record)
}
