// FILE: lixenwraith/flagconf/errors.go
package flagconf

import "errors"

// MaxValueSize bounds a single string value accepted from the environment or a dotenv file.
const MaxValueSize = 1 << 20

var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	// It is not fatal: callers continue with defaults, env and overlay values.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNotRegistered is returned for operations on a path that was never registered.
	ErrNotRegistered = errors.New("path not registered")

	// ErrEmptySegment is returned when a dotted path is empty or contains an empty segment.
	ErrEmptySegment = errors.New("empty path segment")

	// ErrPathConflict is returned when a path walks through an existing leaf value.
	ErrPathConflict = errors.New("path conflicts with existing value")

	// ErrValueSize is returned when a value exceeds MaxValueSize.
	ErrValueSize = errors.New("value exceeds maximum size")

	// ErrUnknownFormat is returned when a file or output format cannot be determined.
	ErrUnknownFormat = errors.New("unknown configuration format")
)
