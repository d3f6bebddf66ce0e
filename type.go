// File: lixenwraith/flagconf/type.go
package flagconf

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// lookup fetches a resolved value, failing for unregistered paths
func (c *Config) lookup(path string) (any, error) {
	val, found := c.Get(path)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}
	return val, nil
}

// String retrieves a string configuration value using the path.
// Attempts conversion from common types if the stored value isn't already a string.
func (c *Config) String(path string) (string, error) {
	val, err := c.lookup(path)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil // null reads as the empty string
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ","), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}

	return "", fmt.Errorf("cannot convert type %T to string for path %s", val, path)
}

// Int64 retrieves an int64 configuration value using the path.
// Attempts conversion from numeric types, parsable strings, and booleans.
func (c *Config) Int64(path string) (int64, error) {
	val, err := c.lookup(path)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for path %s is nil, cannot convert to int64", path)
	}

	if n, ok := val.(json.Number); ok {
		val = n.String()
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(1<<63-1) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d to int64 for path %s: overflow", u, path)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(v.Float()), nil // Truncate
	case reflect.String:
		s := v.String()
		i, err := strconv.ParseInt(s, 0, 64) // Base 0 accepts 0x, 0o, 0b prefixes
		if err == nil {
			return i, nil
		}
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("cannot convert string %q to int64 for path %s: %w", s, path, err)
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for path %s", val, path)
}

// Bool retrieves a boolean configuration value using the path.
// Attempts conversion from numeric types (0=false, non-zero=true) and parsable strings.
func (c *Config) Bool(path string) (bool, error) {
	val, err := c.lookup(path)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value for path %s is nil, cannot convert to bool", path)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		s := v.String()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for path %s: %w", s, path, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for path %s", val, path)
}

// Float64 retrieves a float64 configuration value using the path.
func (c *Config) Float64(path string) (float64, error) {
	val, err := c.lookup(path)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for path %s is nil, cannot convert to float64", path)
	}

	if n, ok := val.(json.Number); ok {
		val = n.String()
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		s := v.String()
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for path %s: %w", s, path, err)
		}
		return f, nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to float64 for path %s", val, path)
}

// Strings retrieves a list of strings using the path.
// Arrays from any source are stringified item by item; a plain string is split on commas.
func (c *Config) Strings(path string) ([]string, error) {
	val, err := c.lookup(path)
	if err != nil {
		return nil, err
	}

	switch v := val.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				out = append(out, "")
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	case string:
		if v == "" {
			return []string{}, nil
		}
		return strings.Split(v, ","), nil
	}

	return nil, fmt.Errorf("cannot convert type %T to []string for path %s", val, path)
}
