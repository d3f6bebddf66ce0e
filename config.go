// FILE: lixenwraith/flagconf/config.go
package flagconf

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// configItem holds the default, per-source and resolved value of a registered path
type configItem struct {
	defaultValue any
	values       map[Source]any // Values by source; presence matters, nil is a valid value
	currentValue any            // Result of applying source precedence
}

// Config is the layered store an Overlay is merged into: registered dot paths with
// default, file, env and cli values resolved by precedence.
type Config struct {
	items   map[string]configItem
	options LoadOptions
	logger  zerolog.Logger
	mutex   sync.RWMutex

	configFilePath string
	fileData       map[string]any
	envData        map[string]any
	cliData        map[string]any
}

// New creates a Config with the default load options and logger.
func New() *Config {
	return NewWithOptions(DefaultLoadOptions())
}

// NewWithOptions creates a Config with custom load options.
func NewWithOptions(opts LoadOptions) *Config {
	return &Config{
		items:    make(map[string]configItem),
		options:  opts,
		logger:   DefaultLogger(),
		fileData: make(map[string]any),
		envData:  make(map[string]any),
		cliData:  make(map[string]any),
	}
}

// SetLogger replaces the logger used for load diagnostics.
func (c *Config) SetLogger(logger zerolog.Logger) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.logger = logger
}

// SetLoadOptions replaces the load options and recomputes every value under the new precedence.
func (c *Config) SetLoadOptions(opts LoadOptions) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.options = opts
	for path, item := range c.items {
		item.currentValue = c.computeValue(item)
		c.items[path] = item
	}
}

// Get retrieves the resolved value for path.
// The second return value indicates if the path was registered.
func (c *Config) Get(path string) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, registered := c.items[path]
	if !registered {
		return nil, false
	}
	return item.currentValue, true
}

// Set replaces the default value of a registered path.
func (c *Config) Set(path string, value any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, registered := c.items[path]
	if !registered {
		return fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}

	item.defaultValue = value
	item.currentValue = c.computeValue(item)
	c.items[path] = item
	return nil
}

// SetSource stores a value for path from a specific source.
func (c *Config) SetSource(path string, source Source, value any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, registered := c.items[path]
	if !registered {
		return fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}

	if item.values == nil {
		item.values = make(map[Source]any)
	}
	item.values[source] = value
	item.currentValue = c.computeValue(item)
	c.items[path] = item
	return nil
}

// GetSource returns the value a single source holds for path.
func (c *Config) GetSource(path string, source Source) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, registered := c.items[path]
	if !registered {
		return nil, false
	}
	val, exists := item.values[source]
	return val, exists
}

// GetSources returns a copy of every non-default source value held for path.
func (c *Config) GetSources(path string) map[Source]any {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	sources := make(map[Source]any)
	if item, registered := c.items[path]; registered {
		for source, val := range item.values {
			sources[source] = val
		}
	}
	return sources
}

// ResetSource drops all values loaded from source.
func (c *Config) ResetSource(source Source) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for path, item := range c.items {
		delete(item.values, source)
		item.currentValue = c.computeValue(item)
		c.items[path] = item
	}

	switch source {
	case SourceFile:
		c.fileData = make(map[string]any)
		c.configFilePath = ""
	case SourceEnv:
		c.envData = make(map[string]any)
	case SourceCLI:
		c.cliData = make(map[string]any)
	}
}

// computeValue resolves an item by walking sources in precedence order. Caller holds the lock.
func (c *Config) computeValue(item configItem) any {
	for _, source := range c.options.Sources {
		if source == SourceDefault {
			return item.defaultValue
		}
		if val, exists := item.values[source]; exists {
			return val
		}
	}
	return item.defaultValue
}

// tree rebuilds the nested view of resolved values. Caller holds the lock.
func (c *Config) tree() map[string]any {
	nested := make(map[string]any)
	for _, path := range sortedKeys(c.items) {
		setNestedValue(nested, path, c.items[path].currentValue)
	}
	return nested
}

// sourceTree rebuilds the nested view of values held by one source. Caller holds the lock.
func (c *Config) sourceTree(source Source) map[string]any {
	nested := make(map[string]any)
	for _, path := range sortedKeys(c.items) {
		if val, exists := c.items[path].values[source]; exists {
			setNestedValue(nested, path, val)
		}
	}
	return nested
}
