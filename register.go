package flagconf

import (
	"fmt"
	"reflect"
	"strings"
)

// Register makes a configuration path known to the Config instance.
// The path should be dot-separated (e.g., "server.port", "debug") with no empty segment.
// defaultValue is the value returned by Get if no source provides one.
func (c *Config) Register(path string, defaultValue any) error {
	if _, err := splitPath(path); err != nil {
		return fmt.Errorf("invalid registration path: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	item := configItem{defaultValue: defaultValue}
	if existing, exists := c.items[path]; exists {
		item.values = existing.values // Re-registering keeps loaded source values
	}
	item.currentValue = c.computeValue(item)
	c.items[path] = item

	return nil
}

// Unregister removes a configuration path and all its children.
func (c *Config) Unregister(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	prefix := path + "."
	removed := false
	for itemPath := range c.items {
		if itemPath == path || strings.HasPrefix(itemPath, prefix) {
			delete(c.items, itemPath)
			removed = true
		}
	}

	if !removed {
		return fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}
	return nil
}

// RegisterStruct registers configuration values derived from a struct.
// It uses `toml` struct tags to determine the configuration paths and recurses into nested structs.
// The prefix is prepended to all paths (e.g., "log."). An empty prefix is allowed.
func (c *Config) RegisterStruct(prefix string, structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("RegisterStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterStruct requires a struct, got %T", structWithDefaults)
	}

	var errs []string
	c.registerFields(v, prefix, "", &errs)

	if len(errs) > 0 {
		return fmt.Errorf("failed to register %d field(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// registerFields walks struct fields, registering leaves and recursing into nested structs.
func (c *Config) registerFields(v reflect.Value, pathPrefix, fieldPath string, errs *[]string) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("toml")
		if tag == "-" {
			continue
		}

		key := field.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}

		currentPath := key
		if pathPrefix != "" {
			currentPath = strings.TrimSuffix(pathPrefix, ".") + "." + key
		}

		isStruct := fieldValue.Kind() == reflect.Struct && !isLeafStruct(fieldValue.Type())
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr &&
			fieldValue.Type().Elem().Kind() == reflect.Struct &&
			!isLeafStruct(fieldValue.Type().Elem())

		if isStruct || isPtrToStruct {
			nested := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					continue // No defaults under a nil pointer
				}
				nested = fieldValue.Elem()
			}
			c.registerFields(nested, currentPath+".", fieldPath+field.Name+".", errs)
			continue
		}

		if err := c.Register(currentPath, fieldValue.Interface()); err != nil {
			*errs = append(*errs, fmt.Sprintf("field %s%s (path %s): %v", fieldPath, field.Name, currentPath, err))
		}
	}
}

// isLeafStruct reports struct types registered as a single value rather than walked.
func isLeafStruct(t reflect.Type) bool {
	switch t.String() {
	case "time.Time", "url.URL", "net.IPNet":
		return true
	}
	return false
}

// RegisterMap registers every leaf of a nested map as a default value under prefix.
// Paths are registered in lexical order so the first error reported is stable.
func (c *Config) RegisterMap(prefix string, nested map[string]any) error {
	flat := flattenMap(nested, strings.TrimSuffix(prefix, "."))

	var errs []string
	for _, path := range sortedKeys(flat) {
		if err := c.Register(path, flat[path]); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to register %d path(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// Paths returns all registered configuration paths with the specified prefix, sorted.
func (c *Config) Paths(prefix string) []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var result []string
	for _, path := range sortedKeys(c.items) {
		if strings.HasPrefix(path, prefix) {
			result = append(result, path)
		}
	}
	return result
}

// IsRegistered reports whether path is registered.
func (c *Config) IsRegistered(path string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	_, ok := c.items[path]
	return ok
}
