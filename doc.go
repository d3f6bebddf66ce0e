// File: lixenwraith/flagconf/doc.go

// Package flagconf turns repeated "-c key=value" command-line options into a nested
// configuration overlay and layers it over defaults, configuration files and the environment.
//
// Value coercion:
//
//	-c public=true            -> true
//	-c debug.raw=false        -> false (stored under "debug" -> "raw")
//	-c proxy=null             -> nil
//	-c theme=undefined        -> Undefined (present, but lower sources show through)
//	-c hosts=[a, b]           -> []any{"a", "b"}
//	-c flags=[]               -> []any{}
//	-c foo=bar=42             -> "bar=42" (only the first "=" splits)
//
// Tokens without "=" are ignored. The first value given for a path wins; later ones are
// dropped with a warning naming the path. Nothing in the accumulation path returns an error.
//
// Accumulating:
//
//	acc := flagconf.NewAccumulator(flagconf.DefaultLogger())
//	var overlay flagconf.Overlay
//	for _, token := range tokens {
//	    overlay = acc.Accumulate(token, overlay)
//	}
//
// or let a flag parser do it:
//
//	opt := flagconf.AddOverlayFlag(cmd.Flags(), acc, "option", "c", "override a configuration key")
//
// Layering:
//
//	cfg, err := flagconf.NewBuilder().
//	    WithDefaults(defaults).
//	    WithFile("config.toml").
//	    WithEnvPrefix("MYAPP_").
//	    WithOverlay(opt.Overlay()).
//	    Build()
//
// Default precedence (highest to lowest): overlay, environment, file, defaults.
// Config is safe for concurrent use. Accumulator calls for one overlay must be serialized
// by the caller to keep first-write-wins and warning order deterministic.
package flagconf
