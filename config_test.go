// FILE: lixenwraith/flagconf/config_test.go
package flagconf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigCreation tests various config creation patterns
func TestConfigCreation(t *testing.T) {
	t.Run("NewWithDefaultOptions", func(t *testing.T) {
		cfg := New()
		require.NotNil(t, cfg)
		assert.NotNil(t, cfg.items)
		assert.Equal(t, []Source{SourceCLI, SourceEnv, SourceFile, SourceDefault}, cfg.options.Sources)
	})

	t.Run("NewWithCustomOptions", func(t *testing.T) {
		opts := LoadOptions{
			Sources:   []Source{SourceEnv, SourceFile, SourceDefault},
			EnvPrefix: "MYAPP_",
		}
		cfg := NewWithOptions(opts)
		assert.Equal(t, opts.Sources, cfg.options.Sources)
		assert.Equal(t, "MYAPP_", cfg.options.EnvPrefix)
	})
}

// TestPathRegistration tests path registration edge cases
func TestPathRegistration(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		defaultVal  any
		expectError bool
	}{
		{"ValidSimplePath", "port", 8080, false},
		{"ValidNestedPath", "server.host.name", "localhost", false},
		{"ValidCamelCase", "debug.ircFramework", false, false},
		{"ValidDash", "feature-flags.enable-debug", false, false},
		{"EmptyPath", "", nil, true},
		{"InvalidDot", "server..port", 8080, true},
		{"LeadingDot", ".server.port", 8080, true},
		{"TrailingDot", "server.port.", 8080, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			err := cfg.Register(tt.path, tt.defaultVal)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrEmptySegment)
				assert.False(t, cfg.IsRegistered(tt.path))
				return
			}
			require.NoError(t, err)
			val, exists := cfg.Get(tt.path)
			assert.True(t, exists)
			assert.Equal(t, tt.defaultVal, val)
		})
	}
}

// TestSourcePrecedence tests resolution across sources
func TestSourcePrecedence(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("test.value", "default"))

	require.NoError(t, cfg.SetSource("test.value", SourceFile, "from-file"))
	require.NoError(t, cfg.SetSource("test.value", SourceEnv, "from-env"))
	require.NoError(t, cfg.SetSource("test.value", SourceCLI, "from-cli"))

	val, _ := cfg.Get("test.value")
	assert.Equal(t, "from-cli", val)

	cfg.SetLoadOptions(LoadOptions{Sources: []Source{SourceEnv, SourceCLI, SourceFile, SourceDefault}})
	val, _ = cfg.Get("test.value")
	assert.Equal(t, "from-env", val)

	cfg.SetLoadOptions(LoadOptions{Sources: []Source{SourceDefault, SourceCLI}})
	val, _ = cfg.Get("test.value")
	assert.Equal(t, "default", val)

	t.Run("NilFromSourceWins", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.Register("proxy", "http://proxy"))
		require.NoError(t, cfg.SetSource("proxy", SourceCLI, nil))

		val, exists := cfg.Get("proxy")
		assert.True(t, exists)
		assert.Nil(t, val)
	})
}

// TestSourceTracking tests per-source accessors
func TestSourceTracking(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("server.port", 8080))
	require.NoError(t, cfg.SetSource("server.port", SourceFile, 9090))
	require.NoError(t, cfg.SetSource("server.port", SourceEnv, 7070))

	sources := cfg.GetSources("server.port")
	assert.Equal(t, map[Source]any{SourceFile: 9090, SourceEnv: 7070}, sources)

	envVal, exists := cfg.GetSource("server.port", SourceEnv)
	assert.True(t, exists)
	assert.Equal(t, 7070, envVal)

	_, exists = cfg.GetSource("server.port", SourceCLI)
	assert.False(t, exists)

	cfg.ResetSource(SourceEnv)
	val, _ := cfg.Get("server.port")
	assert.Equal(t, 9090, val)

	assert.ErrorIs(t, cfg.SetSource("unknown", SourceEnv, 1), ErrNotRegistered)
	assert.Empty(t, cfg.GetSources("unknown"))
}

// TestSetReplacesDefault tests that Set changes the default layer only
func TestSetReplacesDefault(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("name", "a"))
	require.NoError(t, cfg.Set("name", "b"))

	val, _ := cfg.Get("name")
	assert.Equal(t, "b", val)

	require.NoError(t, cfg.SetSource("name", SourceCLI, "c"))
	require.NoError(t, cfg.Set("name", "d"))
	val, _ = cfg.Get("name")
	assert.Equal(t, "c", val)

	assert.ErrorIs(t, cfg.Set("missing", 1), ErrNotRegistered)
}

// TestReRegisterKeepsSources tests that registering twice preserves loaded values
func TestReRegisterKeepsSources(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("port", 1))
	require.NoError(t, cfg.SetSource("port", SourceFile, 2))
	require.NoError(t, cfg.Register("port", 3))

	val, _ := cfg.Get("port")
	assert.Equal(t, 2, val)
}

// TestUnregister tests removal of paths and their children
func TestUnregister(t *testing.T) {
	cfg := New()
	for _, p := range []string{"server.host", "server.port", "server.tls.cert", "serverless", "debug"} {
		require.NoError(t, cfg.Register(p, ""))
	}

	require.NoError(t, cfg.Unregister("server"))
	assert.Equal(t, []string{"debug", "serverless"}, cfg.Paths(""))

	assert.ErrorIs(t, cfg.Unregister("server"), ErrNotRegistered)
}

// TestRegisterStruct tests struct registration with nested and tagged fields
func TestRegisterStruct(t *testing.T) {
	type TLS struct {
		Cert string `toml:"cert"`
	}
	type Server struct {
		Host    string        `toml:"host"`
		Port    int           `toml:"port,omitempty"`
		Timeout time.Duration `toml:"timeout"`
		TLS     *TLS          `toml:"tls"`
		NoTLS   *TLS          `toml:"no_tls"`
		Skipped string        `toml:"-"`
		hidden  string
	}
	type App struct {
		Server  Server    `toml:"server"`
		Debug   bool      // Untagged uses the field name
		Started time.Time `toml:"started"`
	}

	defaults := App{
		Server: Server{Host: "localhost", Port: 8080, Timeout: time.Second, TLS: &TLS{Cert: "c.pem"}, hidden: "x"},
		Debug:  true,
	}

	cfg := New()
	require.NoError(t, cfg.RegisterStruct("app.", defaults))

	assert.Equal(t, []string{
		"app.Debug",
		"app.server.host",
		"app.server.port",
		"app.server.timeout",
		"app.server.tls.cert",
		"app.started",
	}, cfg.Paths(""))

	port, _ := cfg.Get("app.server.port")
	assert.Equal(t, 8080, port)

	t.Run("RejectsNonStruct", func(t *testing.T) {
		assert.Error(t, New().RegisterStruct("", "not-a-struct"))
		var nilApp *App
		assert.Error(t, New().RegisterStruct("", nilApp))
	})
}

// TestRegisterMap tests registration from a nested map
func TestRegisterMap(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.RegisterMap("", map[string]any{
		"server": map[string]any{"host": "h", "port": int64(1)},
		"tags":   []any{"a"},
	}))

	assert.Equal(t, []string{"server.host", "server.port", "tags"}, cfg.Paths(""))
	assert.Equal(t, []string{"server.host", "server.port"}, cfg.Paths("server."))

	require.NoError(t, cfg.RegisterMap("extra.", map[string]any{"on": true}))
	val, _ := cfg.Get("extra.on")
	assert.Equal(t, true, val)

	err := New().RegisterMap("", map[string]any{"": "empty key"})
	assert.Error(t, err)
}

// TestValidate tests required path checks
func TestValidate(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("api.key", ""))
	require.NoError(t, cfg.Register("api.url", "http://localhost"))

	err := cfg.Validate("api.key", "api.url", "api.missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.key")
	assert.Contains(t, err.Error(), "api.missing (not registered)")

	require.NoError(t, cfg.SetSource("api.key", SourceCLI, "secret"))
	require.NoError(t, cfg.SetSource("api.url", SourceFile, "http://remote"))
	assert.NoError(t, cfg.Validate("api.key", "api.url"))
}

// TestDebugAndClone tests diagnostics output and deep copies
func TestDebugAndClone(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("list", []any{"a"}))
	require.NoError(t, cfg.SetSource("list", SourceCLI, []any{"b"}))

	debug := cfg.Debug()
	assert.Contains(t, debug, "Precedence: [cli env file default]")
	assert.Contains(t, debug, "list:")
	assert.Contains(t, debug, "cli: [b]")

	clone := cfg.Clone()
	require.NoError(t, clone.SetSource("list", SourceCLI, []any{"c"}))

	orig, _ := cfg.Get("list")
	cloned, _ := clone.Get("list")
	assert.Equal(t, []any{"b"}, orig)
	assert.Equal(t, []any{"c"}, cloned)
}
