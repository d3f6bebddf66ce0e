package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/lixenwraith/flagconf"
	"github.com/rs/zerolog"
)

const (
	envHome     = "FLAGCONF_HOME"
	envLogLevel = "FLAGCONF_LOG_LEVEL"

	homeMarker           = ".flagconf_home"
	deprecatedHomeMarker = ".flagconf_dist_home"
	fallbackHome         = "~/.flagconf"
)

// app carries the state shared by all commands
type app struct {
	out    io.Writer
	errOut io.Writer
	getenv func(string) string

	logger zerolog.Logger
	acc    *flagconf.Accumulator
	home   *flagconf.HomeResolver
	option *flagconf.OverlayFlag
}

// newApp wires the logger, accumulator and home resolver.
// The log level comes from the environment because "-c" values are accumulated while flags are still being parsed.
func newApp(out, errOut io.Writer, getenv func(string) string) *app {
	logger := flagconf.NewLogger(flagconf.LogConfig{
		Level:  flagconf.ParseLevel(getenv(envLogLevel)),
		Output: errOut,
		Pretty: true,
	})

	a := &app{
		out:    out,
		errOut: errOut,
		getenv: getenv,
		logger: logger,
		acc:    flagconf.NewAccumulator(logger),
	}
	a.home = flagconf.NewHomeResolver(flagconf.FirstOf(
		a.envHome,
		flagconf.DistHome(executableDir(), homeMarker, deprecatedHomeMarker, logger),
		flagconf.StaticHome(fallbackHome),
	))
	return a
}

// envHome reads FLAGCONF_HOME through the injected getenv
func (a *app) envHome() (string, error) {
	if home := a.getenv(envHome); home != "" {
		return home, nil
	}
	return "", nil
}

// overlay returns the options accumulated so far, never nil
func (a *app) overlay() flagconf.Overlay {
	if a.option == nil || a.option.Overlay() == nil {
		return flagconf.Overlay{}
	}
	return a.option.Overlay()
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
