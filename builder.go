// File: lixenwraith/flagconf/builder.go
package flagconf

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ValidatorFunc defines the signature for a function that can validate a Config instance.
// It receives the fully loaded *Config object and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for building configurations
type Builder struct {
	opts       LoadOptions
	defaults   any
	prefix     string
	file       string
	overlay    Overlay
	tokens     []string
	logger     *zerolog.Logger
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		opts: DefaultLoadOptions(),
	}
}

// WithDefaults sets the struct containing default values
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithPrefix sets the prefix for struct registration
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithFile sets the configuration file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.opts.EnvPrefix = prefix
	return b
}

// WithEnvFile adds a dotenv file consulted after the process environment
func (b *Builder) WithEnvFile(path string) *Builder {
	b.opts.EnvFile = path
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.opts.EnvTransform = fn
	return b
}

// WithEnvWhitelist limits which paths are checked for env vars
func (b *Builder) WithEnvWhitelist(paths ...string) *Builder {
	if b.opts.EnvWhitelist == nil {
		b.opts.EnvWhitelist = make(map[string]bool)
	}
	for _, path := range paths {
		b.opts.EnvWhitelist[path] = true
	}
	return b
}

// WithSources sets the precedence order for configuration sources
func (b *Builder) WithSources(sources ...Source) *Builder {
	if len(sources) == 0 {
		b.err = errors.Join(b.err, fmt.Errorf("at least one source is required"))
		return b
	}
	b.opts.Sources = sources
	return b
}

// WithOverlay sets an already accumulated overlay as the cli source
func (b *Builder) WithOverlay(overlay Overlay) *Builder {
	b.overlay = overlay
	return b
}

// WithTokens adds raw "key=value" options, folded after any WithOverlay values.
// Earlier values win over later ones for the same path.
func (b *Builder) WithTokens(tokens ...string) *Builder {
	b.tokens = append(b.tokens, tokens...)
	return b
}

// WithRegisterOverlay registers overlay paths that no default declares
func (b *Builder) WithRegisterOverlay(enabled bool) *Builder {
	b.opts.RegisterOverlay = enabled
	return b
}

// WithLogger sets the logger shared by the accumulator and the config
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Overlay returns the overlay the builder will load: WithOverlay values followed by WithTokens.
func (b *Builder) Overlay() Overlay {
	overlay := b.overlay.Clone()
	if len(b.tokens) == 0 {
		return overlay
	}

	acc := NewAccumulator(b.loggerOrDefault())
	for _, token := range b.tokens {
		overlay = acc.Accumulate(token, overlay)
	}
	return overlay
}

func (b *Builder) loggerOrDefault() zerolog.Logger {
	if b.logger != nil {
		return *b.logger
	}
	return DefaultLogger()
}

// Build creates the Config instance with all specified options
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := NewWithOptions(b.opts)
	cfg.SetLogger(b.loggerOrDefault())

	if b.defaults != nil {
		if err := cfg.RegisterStruct(b.prefix, b.defaults); err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
	}

	loadErr := cfg.LoadWithOptions(b.file, b.Overlay(), b.opts)
	if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
		return nil, loadErr
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	// ErrConfigNotFound or nil
	return cfg, loadErr
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and unmarshals the final configuration into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) error {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}

	if scanErr := cfg.Scan(b.prefix, target); scanErr != nil {
		return fmt.Errorf("failed to scan final config into target: %w", scanErr)
	}

	// ErrConfigNotFound or nil
	return err
}
