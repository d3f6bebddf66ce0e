// FILE: lixenwraith/flagconf/discovery.go
package flagconf

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions configures automatic config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// Home, when set, is searched after custom paths
	Home *HomeResolver

	// Whether to search in current directory
	UseCurrentDir bool

	// Whether to search in XDG config directories
	UseXDG bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".json", ".jsonc", ".yaml", ".yml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseCurrentDir: true,
		UseXDG:        true,
	}
}

// DiscoverFile returns the first existing config file, or "" if none is found.
// Order: explicit env var, custom paths, home directory, current directory, XDG directories.
func DiscoverFile(opts FileDiscoveryOptions) string {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return ExpandHome(path)
		}
	}

	searchPaths := append([]string(nil), opts.Paths...)

	if opts.Home != nil {
		if home, err := opts.Home.Get(); err == nil && home != "" {
			searchPaths = append(searchPaths, home)
		}
	}

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(ExpandHome(dir), opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	return ""
}

// WithFileDiscovery sets the file from DiscoverFile unless WithFile already chose one.
// No file found is not an error: the app runs with defaults, env and overlay values.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if b.file != "" {
		return b
	}
	b.file = DiscoverFile(opts)
	return b
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
