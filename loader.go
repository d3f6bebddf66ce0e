// FILE: lixenwraith/flagconf/loader.go
package flagconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Source represents a configuration source, used to define load precedence
type Source string

const (
	// SourceDefault represents use of registered default values
	SourceDefault Source = "default"
	// SourceFile represents values loaded from a configuration file
	SourceFile Source = "file"
	// SourceEnv represents values loaded from environment variables or a dotenv file
	SourceEnv Source = "env"
	// SourceCLI represents values accumulated from "-c key=value" options
	SourceCLI Source = "cli"
)

// EnvTransformFunc converts a configuration path to an environment variable name
type EnvTransformFunc func(path string) string

// LoadOptions configures how configuration is loaded from multiple sources
type LoadOptions struct {
	// Sources defines the precedence order (first = highest priority)
	// Default: [SourceCLI, SourceEnv, SourceFile, SourceDefault]
	Sources []Source

	// EnvPrefix is prepended to environment variable names
	// Example: "MYAPP_" transforms "server.port" to "MYAPP_SERVER_PORT"
	EnvPrefix string

	// EnvTransform customizes how paths map to environment variables
	// If nil, uses default transformation (dots to underscores, uppercase)
	EnvTransform EnvTransformFunc

	// EnvFile is an optional dotenv file consulted after the process environment
	EnvFile string

	// EnvWhitelist limits which paths are checked for env vars (nil = all)
	EnvWhitelist map[string]bool

	// RegisterOverlay registers overlay paths that are not yet known instead of ignoring them
	RegisterOverlay bool
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Sources: []Source{SourceCLI, SourceEnv, SourceFile, SourceDefault},
	}
}

// LoadWithOptions loads the file, the environment and the overlay, layering them by opts.Sources.
// A missing file is reported as ErrConfigNotFound joined with any other non-fatal errors.
func (c *Config) LoadWithOptions(filePath string, overlay Overlay, opts LoadOptions) error {
	c.SetLoadOptions(opts)

	var loadErrors []error

	for i := len(opts.Sources) - 1; i >= 0; i-- {
		switch opts.Sources[i] {
		case SourceDefault:
			// Defaults are already in place from Register calls
			continue

		case SourceFile:
			if filePath != "" {
				if err := c.LoadFile(filePath); err != nil {
					if !errors.Is(err, ErrConfigNotFound) {
						return err
					}
					loadErrors = append(loadErrors, err)
				}
			}

		case SourceEnv:
			if err := c.loadEnv(opts); err != nil {
				loadErrors = append(loadErrors, err)
			}

		case SourceCLI:
			c.LoadOverlay(overlay)
		}
	}

	return errors.Join(loadErrors...)
}

// LoadFile loads configuration values from a TOML, JSON (comments allowed) or YAML file.
// Only registered paths are taken from the file.
func (c *Config) LoadFile(path string) error {
	fileConfig, err := readConfigFile(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	newFileData := make(map[string]any)
	var apply func(prefix string, data map[string]any)
	apply = func(prefix string, data map[string]any) {
		for key, value := range data {
			fullPath := key
			if prefix != "" {
				fullPath = prefix + "." + key
			}
			if _, registered := c.items[fullPath]; registered {
				newFileData[fullPath] = value
			} else if subMap, isMap := value.(map[string]any); isMap {
				apply(fullPath, subMap)
			}
		}
	}
	apply("", fileConfig)

	c.configFilePath = path
	c.fileData = newFileData

	for itemPath, item := range c.items {
		if value, exists := newFileData[itemPath]; exists {
			if item.values == nil {
				item.values = make(map[Source]any)
			}
			item.values[SourceFile] = value
		} else {
			delete(item.values, SourceFile)
		}
		item.currentValue = c.computeValue(item)
		c.items[itemPath] = item
	}

	return nil
}

// ReadFile parses a configuration file into a nested map without touching any Config.
func ReadFile(path string) (map[string]any, error) {
	return readConfigFile(path)
}

// readConfigFile reads and decodes a file, detecting the format from extension then content
func readConfigFile(path string) (map[string]any, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(fileData)
	}

	fileConfig := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
	case "json":
		if err := decodeJSON(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: file '%s'", ErrUnknownFormat, path)
	}

	return fileConfig, nil
}

// decodeJSON strips comments and trailing commas before decoding
func decodeJSON(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber() // Preserve number precision
	return decoder.Decode(target)
}

// LoadEnv loads configuration values from environment variables with the given prefix
func (c *Config) LoadEnv(prefix string) error {
	c.mutex.RLock()
	opts := c.options
	c.mutex.RUnlock()

	opts.EnvPrefix = prefix
	return c.loadEnv(opts)
}

// loadEnv looks up every registered path in the environment, then in the dotenv file.
// Values are coerced with ParseValue; "undefined" leaves the path unset.
func (c *Config) loadEnv(opts LoadOptions) error {
	transform := opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(opts.EnvPrefix)
	}

	var dotenv map[string]string
	if opts.EnvFile != "" {
		var err error
		dotenv, err = godotenv.Read(opts.EnvFile)
		if err != nil {
			return fmt.Errorf("failed to read env file '%s': %w", opts.EnvFile, err)
		}
	}

	c.mutex.RLock()
	paths := sortedKeys(c.items)
	c.mutex.RUnlock()

	found := make(map[string]any)
	for _, path := range paths {
		if opts.EnvWhitelist != nil && !opts.EnvWhitelist[path] {
			continue
		}

		envVar := transform(path)
		value, exists := os.LookupEnv(envVar)
		if !exists {
			value, exists = dotenv[envVar]
		}
		if !exists {
			continue
		}
		if len(value) > MaxValueSize {
			return fmt.Errorf("%w: %s", ErrValueSize, envVar)
		}

		parsed := ParseValue(value)
		if IsUndefined(parsed) {
			continue
		}
		found[path] = parsed
	}

	if len(found) == 0 {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.envData = found
	for path, value := range found {
		if item, exists := c.items[path]; exists {
			if item.values == nil {
				item.values = make(map[Source]any)
			}
			item.values[SourceEnv] = value
			item.currentValue = c.computeValue(item)
			c.items[path] = item
		}
	}

	return nil
}

// LoadOverlay applies an accumulated Overlay as the cli source.
// Undefined leaves clear any earlier cli value so lower sources show through.
// Paths that are not registered are skipped with a warning unless LoadOptions.RegisterOverlay is set;
// the skipped paths are returned in lexical order.
func (c *Config) LoadOverlay(overlay Overlay) []string {
	flat := overlay.Flatten()
	if len(flat) == 0 {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	var ignored []string
	applied := make(map[string]any, len(flat))

	for _, path := range sortedKeys(flat) {
		value := flat[path]

		item, registered := c.items[path]
		if !registered {
			if !c.options.RegisterOverlay {
				c.logger.Warn().Str("key", path).Msg("unknown configuration key, ignoring")
				ignored = append(ignored, path)
				continue
			}
			if IsUndefined(value) {
				continue // Nothing to register: no cli value, no default
			}
			if conflict := c.conflictingPath(path); conflict != "" {
				c.logger.Warn().Str("key", path).Str("registered", conflict).
					Msg("configuration key overlaps a registered path, ignoring")
				ignored = append(ignored, path)
				continue
			}
			item = configItem{}
		}

		if item.values == nil {
			item.values = make(map[Source]any)
		}
		if IsUndefined(value) {
			delete(item.values, SourceCLI)
		} else {
			item.values[SourceCLI] = value
			applied[path] = value
		}
		item.currentValue = c.computeValue(item)
		c.items[path] = item
	}

	c.cliData = applied
	return ignored
}

// conflictingPath finds a registered path that is an ancestor or descendant of path. Caller holds the lock.
func (c *Config) conflictingPath(path string) string {
	for _, registered := range sortedKeys(c.items) {
		if strings.HasPrefix(path, registered+".") || strings.HasPrefix(registered, path+".") {
			return registered
		}
	}
	return ""
}

// DiscoverEnv finds all environment variables matching registered paths
// and returns a map of path -> env var name for found variables
func (c *Config) DiscoverEnv(prefix string) map[string]string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	transform := c.options.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(prefix)
	}

	discovered := make(map[string]string)
	for path := range c.items {
		envVar := transform(path)
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[path] = envVar
		}
	}

	return discovered
}

// ExportEnv renders every path set by a non-default source as an environment variable.
// Values are written in the literal form ParseValue reads back: null, true/false and [a, b].
// The literal form has no quoting, so a string that spells a literal ("true", "null", "[a]")
// reads back as that literal rather than as a string.
func (c *Config) ExportEnv(prefix string) map[string]string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	transform := c.options.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(prefix)
	}

	exports := make(map[string]string)
	for path, item := range c.items {
		if !c.fromSource(item) {
			continue
		}
		exports[transform(path)] = envLiteral(item.currentValue)
	}
	return exports
}

// fromSource reports whether the resolved value of item comes from a non-default source. Caller holds the lock.
func (c *Config) fromSource(item configItem) bool {
	for _, source := range c.options.Sources {
		if source == SourceDefault {
			return false
		}
		if _, exists := item.values[source]; exists {
			return true
		}
	}
	return false
}

func envLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = envLiteral(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ReplaceAll(env, "-", "_")
		return prefix + strings.ToUpper(env)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json", ".jsonc":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// JSON first (strict format)
	var jsonTest map[string]any
	if err := decodeJSON(data, &jsonTest); err == nil {
		return "json"
	}

	// TOML before YAML: most "key = value" files also parse as a YAML scalar
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&yamlTest); err == nil || errors.Is(err, io.EOF) {
		return "yaml"
	}

	return ""
}
