package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Config wraps a map[string]any for type-safe value extraction.
// Accessors return the default when the key is missing or the value
// has the wrong type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted only if it has no fractional part
//   - json.Number: converted only if it is an integer literal
func (c Config) Int(key string, defaultVal int) int {
	switch val := c.data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	}
	return defaultVal
}

// Sub returns the nested map at key as a Config.
// Missing or non-map values yield an empty Config.
func (c Config) Sub(key string) Config {
	if m, ok := c.data[key].(map[string]any); ok {
		return New(m)
	}
	return New(nil)
}

// StringMap returns the nested map at key with every scalar value
// rendered as a string. Returns an error if a value is a map or slice.
//
// YAML such as
//
//	definitions:
//	  rate: 0.25
//	  cell: B2
//
// yields map[string]string{"rate": "0.25", "cell": "B2"}.
func (c Config) StringMap(key string) (map[string]string, error) {
	v, ok := c.data[key]
	if !ok || v == nil {
		return map[string]string{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a mapping, got %T", key, v)
	}
	out := make(map[string]string, len(m))
	for k, item := range m {
		s, err := scalarString(item)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", key, k, err)
		}
		out[k] = s
	}
	return out, nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}
