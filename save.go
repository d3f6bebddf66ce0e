// FILE: lixenwraith/flagconf/save.go
package flagconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Encode
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes a nested map in the requested format.
// Undefined leaves are omitted; TOML has no null so nil leaves are omitted there too.
func Encode(w io.Writer, format string, data map[string]any) error {
	switch strings.ToLower(format) {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlEncodable(data))
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(encodable(data))
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(encodable(data)); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encode writes the resolved configuration in the requested format
func (c *Config) Encode(w io.Writer, format string) error {
	c.mutex.RLock()
	nested := c.tree()
	c.mutex.RUnlock()

	return Encode(w, format, nested)
}

// Save writes the resolved configuration to a TOML file atomically.
func (c *Config) Save(path string) error {
	c.mutex.RLock()
	nested := c.tree()
	c.mutex.RUnlock()

	var buf bytes.Buffer
	if err := Encode(&buf, FormatTOML, nested); err != nil {
		return fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return atomicWriteFile(path, buf.Bytes())
}

// SaveSource writes values from a specific source to a TOML file
func (c *Config) SaveSource(path string, source Source) error {
	c.mutex.RLock()
	nested := c.sourceTree(source)
	c.mutex.RUnlock()

	var buf bytes.Buffer
	if err := Encode(&buf, FormatTOML, nested); err != nil {
		return fmt.Errorf("failed to marshal %s source data to TOML: %w", source, err)
	}
	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile writes through a temporary file in the target directory and renames it into place
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // No-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// encodable drops Undefined leaves
func encodable(m map[string]any) map[string]any {
	return prune(m, false)
}

// tomlEncodable drops Undefined and nil leaves
func tomlEncodable(m map[string]any) map[string]any {
	return prune(m, true)
}

func prune(m map[string]any, dropNil bool) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if keep, ok := pruneValue(v, dropNil); ok {
			out[k] = keep
		}
	}
	return out
}

func pruneValue(v any, dropNil bool) (any, bool) {
	switch typed := v.(type) {
	case nil:
		return nil, !dropNil
	case undefinedValue:
		return nil, false
	case json.Number:
		return numberValue(typed), true
	case map[string]any:
		return prune(typed, dropNil), true
	case []any:
		items := make([]any, 0, len(typed))
		for _, item := range typed {
			if keep, ok := pruneValue(item, dropNil); ok {
				items = append(items, keep)
			}
		}
		return items, true
	default:
		return v, true
	}
}

// numberValue turns a JSON number into int64 or float64 so every encoder writes a number
func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
