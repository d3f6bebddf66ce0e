package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree with a fake environment and returns stdout and stderr
func run(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	getenv := func(key string) string { return env[key] }

	root := newRootCmd(newApp(&out, &errOut, getenv))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestOverlayCommand(t *testing.T) {
	t.Run("Coercion", func(t *testing.T) {
		out, _, err := run(t, nil, "overlay",
			"-c", "public=true",
			"-c", "debug.raw=false",
			"-c", "proxy=null",
			"-c", "theme=undefined",
			"-c", "hosts=[a, b]",
			"-c", "foo=bar=42",
			"-c", "ignored",
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"public": true,
			"debug":  map[string]any{"raw": false},
			"proxy":  nil,
			"hosts":  []any{"a", "b"},
			"foo":    "bar=42",
		}, decodeJSON(t, out))
	})

	t.Run("DuplicateWarns", func(t *testing.T) {
		out, errOut, err := run(t, nil, "overlay", "-c", "public=true", "--option", "public=false")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"public": true}, decodeJSON(t, out))
		assert.Contains(t, errOut, "already specified")
		assert.Contains(t, errOut, "public")
	})

	t.Run("LogLevelOff", func(t *testing.T) {
		env := map[string]string{envLogLevel: "off"}
		_, errOut, err := run(t, env, "overlay", "-c", "a=1", "-c", "a=2")
		require.NoError(t, err)
		assert.Empty(t, errOut)
	})

	t.Run("Empty", func(t *testing.T) {
		out, _, err := run(t, nil, "overlay")
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, out)
	})

	t.Run("TOML", func(t *testing.T) {
		out, _, err := run(t, nil, "overlay", "--format", "toml", "-c", "server.port=9000")
		require.NoError(t, err)
		assert.Contains(t, out, "[server]")
		assert.Contains(t, out, `port = "9000"`)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, _, err := run(t, nil, "overlay", "-f", "ini")
		assert.Error(t, err)
	})
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[server]\nhost = \"localhost\"\nport = 8080\n"), 0644))

	t.Run("ExplicitFile", func(t *testing.T) {
		out, _, err := run(t, nil, "merge", file, "-c", "server.port=9000", "-c", "extra.on=true", "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"server": map[string]any{"host": "localhost", "port": "9000"},
			"extra":  map[string]any{"on": true},
		}, decodeJSON(t, out))
	})

	t.Run("Strict", func(t *testing.T) {
		out, errOut, err := run(t, nil, "merge", file, "--strict", "-c", "extra.on=true", "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"server": map[string]any{"host": "localhost", "port": float64(8080)},
		}, decodeJSON(t, out))
		assert.Contains(t, errOut, "extra.on")
	})

	t.Run("UndefinedKeepsFileValue", func(t *testing.T) {
		out, _, err := run(t, nil, "merge", file, "-c", "server.host=undefined", "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, "localhost", decodeJSON(t, out)["server"].(map[string]any)["host"])
	})

	t.Run("UndefinedUnknownKeyOmitted", func(t *testing.T) {
		jsonFile := filepath.Join(dir, "c.json")
		require.NoError(t, os.WriteFile(jsonFile, []byte(`{"port": 8080}`), 0644))

		out, _, err := run(t, nil, "merge", jsonFile, "-f", "json", "-c", "theme=undefined")
		require.NoError(t, err)
		assert.JSONEq(t, `{"port": 8080}`, out)
	})

	t.Run("JSONToYAMLKeepsNumbers", func(t *testing.T) {
		jsonFile := filepath.Join(dir, "numbers.json")
		require.NoError(t, os.WriteFile(jsonFile, []byte(`{"port": 8080, "ratio": 0.5}`), 0644))

		out, _, err := run(t, nil, "merge", jsonFile, "-f", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "port: 8080\n")
		assert.Contains(t, out, "ratio: 0.5\n")
	})

	t.Run("EnvPrefix", func(t *testing.T) {
		t.Setenv("MERGETEST_SERVER_HOST", "env-host")
		out, _, err := run(t, nil, "merge", file, "--env-prefix", "MERGETEST_", "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, "env-host", decodeJSON(t, out)["server"].(map[string]any)["host"])
	})

	t.Run("DiscoveredInHome", func(t *testing.T) {
		env := map[string]string{envHome: dir}
		out, _, err := run(t, env, "merge", "-c", "server.host=cli")
		require.NoError(t, err)
		assert.Contains(t, out, `host = "cli"`)
		assert.Contains(t, out, "port = 8080")
	})

	t.Run("NoFileInHome", func(t *testing.T) {
		env := map[string]string{envHome: t.TempDir()}
		out, _, err := run(t, env, "merge", "-c", "a.b=c", "-f", "json")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": "c"}}, decodeJSON(t, out))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := run(t, nil, "merge", filepath.Join(dir, "missing.toml"))
		assert.Error(t, err)
	})
}

func TestHomeCommand(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, map[string]string{envHome: dir}, "home")
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out)
}

func TestHelpListsEnvironment(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, map[string]string{envHome: dir}, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Environment variables:")
	assert.Contains(t, out, envHome)
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "--option key=value")
}

func TestMergeEnvFormat(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  host: localhost\n  port: 8080\n"), 0644))

	out, _, err := run(t, nil, "merge", file, "-f", "env", "-c", "server.host=example.org", "-c", "hosts=[a, b]")
	require.NoError(t, err)
	assert.Contains(t, out, `SERVER_HOST="example.org"`)
	assert.Contains(t, out, `HOSTS="[a, b]"`)
	assert.NotContains(t, out, "SERVER_PORT")
}
