// FILE: lixenwraith/flagconf/home.go
package flagconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// HomeFunc computes a home directory.
type HomeFunc func() (string, error)

// HomeResolver computes the home directory once, on first use, and caches the result.
// It is passed to its users rather than held globally; Reset clears the cached value.
type HomeResolver struct {
	mu       sync.Mutex
	resolve  HomeFunc
	resolved bool
	home     string
	err      error
}

// NewHomeResolver creates a resolver around fn.
func NewHomeResolver(fn HomeFunc) *HomeResolver {
	return &HomeResolver{resolve: fn}
}

// Get returns the home directory, computing it on the first call only.
// A failed resolution is cached as well until Reset.
func (h *HomeResolver) Get() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.resolved {
		h.home, h.err = h.resolve()
		if h.err == nil {
			h.home = ExpandHome(h.home)
		}
		h.resolved = true
	}
	return h.home, h.err
}

// Reset forgets the cached value; the next Get resolves again.
func (h *HomeResolver) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.resolved = false
	h.home = ""
	h.err = nil
}

// FirstOf tries each HomeFunc in order and returns the first non-empty result.
// Errors of earlier functions are skipped; the last error is returned if none succeeds.
func FirstOf(fns ...HomeFunc) HomeFunc {
	return func() (string, error) {
		err := errors.New("no home directory source configured")
		for _, fn := range fns {
			home, fnErr := fn()
			if fnErr == nil && home != "" {
				return home, nil
			}
			if fnErr != nil {
				err = fnErr
			}
		}
		return "", err
	}
}

// EnvHome reads the home directory from an environment variable.
func EnvHome(envVar string) HomeFunc {
	return func() (string, error) {
		if home := strings.TrimSpace(os.Getenv(envVar)); home != "" {
			return home, nil
		}
		return "", fmt.Errorf("environment variable %s is not set", envVar)
	}
}

// StaticHome always returns path.
func StaticHome(path string) HomeFunc {
	return func() (string, error) {
		return path, nil
	}
}

// DistHome reads the home directory from a marker file in dir holding a single path.
// If a marker named deprecatedName exists it is still used, with a warning to rename it.
func DistHome(dir, name, deprecatedName string, logger zerolog.Logger) HomeFunc {
	return func() (string, error) {
		marker := filepath.Join(dir, name)

		if deprecatedName != "" {
			deprecated := filepath.Join(dir, deprecatedName)
			if _, err := os.Stat(deprecated); err == nil {
				logger.Warn().Str("file", deprecatedName).Str("replacement", name).
					Msg("home marker file is deprecated and will be ignored in a future release")
				marker = deprecated
			}
		}

		data, err := os.ReadFile(marker)
		if err != nil {
			return "", fmt.Errorf("failed to read home marker '%s': %w", marker, err)
		}
		home := strings.TrimSpace(string(data))
		if home == "" {
			return "", fmt.Errorf("home marker '%s' is empty", marker)
		}
		return home, nil
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~"))
}
