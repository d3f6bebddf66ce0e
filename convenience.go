// File: lixenwraith/flagconf/convenience.go
package flagconf

import (
	"errors"
	"fmt"
	"strings"
)

// Quick registers structDefaults, then loads configFile, the environment under envPrefix,
// and the "key=value" tokens with the standard precedence: cli > env > file > default.
func Quick(structDefaults any, envPrefix, configFile string, tokens []string) (*Config, error) {
	return NewBuilder().
		WithDefaults(structDefaults).
		WithEnvPrefix(envPrefix).
		WithFile(configFile).
		WithTokens(tokens...).
		Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(structDefaults any, envPrefix, configFile string, tokens []string) *Config {
	cfg, err := Quick(structDefaults, envPrefix, configFile, tokens)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Validate checks that every required path is registered and that some source other than the default provided it.
func (c *Config) Validate(required ...string) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var missing []string
	for _, path := range required {
		item, exists := c.items[path]
		if !exists {
			missing = append(missing, path+" (not registered)")
			continue
		}
		if len(item.values) == 0 {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a formatted string showing all configuration values and their sources
func (c *Config) Debug() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	fmt.Fprintf(&b, "Precedence: %v\n", c.options.Sources)
	if c.configFilePath != "" {
		fmt.Fprintf(&b, "File: %s\n", c.configFilePath)
	}
	b.WriteString("Current values:\n")

	for _, path := range sortedKeys(c.items) {
		item := c.items[path]
		fmt.Fprintf(&b, "  %s:\n", path)
		fmt.Fprintf(&b, "    Current: %v\n", item.currentValue)
		fmt.Fprintf(&b, "    Default: %v\n", item.defaultValue)
		for _, source := range c.options.Sources {
			if value, exists := item.values[source]; exists {
				fmt.Fprintf(&b, "    %s: %v\n", source, value)
			}
		}
	}

	return b.String()
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	clone := &Config{
		items:          make(map[string]configItem, len(c.items)),
		options:        c.options,
		logger:         c.logger,
		configFilePath: c.configFilePath,
		fileData:       deepCopyMap(c.fileData),
		envData:        deepCopyMap(c.envData),
		cliData:        deepCopyMap(c.cliData),
	}

	for path, item := range c.items {
		newItem := configItem{
			defaultValue: deepCopyValue(item.defaultValue),
			currentValue: deepCopyValue(item.currentValue),
			values:       make(map[Source]any, len(item.values)),
		}
		for source, value := range item.values {
			newItem.values[source] = deepCopyValue(value)
		}
		clone.items[path] = newItem
	}

	return clone
}
