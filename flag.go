// FILE: lixenwraith/flagconf/flag.go
package flagconf

import (
	"encoding/json"
	"flag"

	"github.com/spf13/pflag"
)

// OverlayFlag is a repeatable flag value that accumulates "key=value" options into an Overlay.
// It satisfies both flag.Value and pflag.Value.
type OverlayFlag struct {
	acc     *Accumulator
	overlay Overlay
	tokens  []string
}

var (
	_ flag.Value  = (*OverlayFlag)(nil)
	_ pflag.Value = (*OverlayFlag)(nil)
)

// NewOverlayFlag creates an empty flag value folding through acc.
func NewOverlayFlag(acc *Accumulator) *OverlayFlag {
	return &OverlayFlag{acc: acc}
}

// Set accumulates one flag occurrence. It never returns an error:
// malformed or duplicate options are reported by the Accumulator and skipped.
func (f *OverlayFlag) Set(token string) error {
	f.tokens = append(f.tokens, token)
	f.overlay = f.acc.Accumulate(token, f.overlay)
	return nil
}

// String renders the accumulated overlay as JSON, or "" when nothing was accumulated.
func (f *OverlayFlag) String() string {
	if f == nil || f.overlay == nil {
		return ""
	}
	data, err := json.Marshal(encodable(f.overlay))
	if err != nil {
		return ""
	}
	return string(data)
}

// Type names the value in pflag usage output.
func (f *OverlayFlag) Type() string {
	return "key=value"
}

// Overlay returns the accumulated overlay, nil if no valid option was given.
func (f *OverlayFlag) Overlay() Overlay {
	return f.overlay
}

// Tokens returns every raw occurrence in arrival order, including ignored ones.
func (f *OverlayFlag) Tokens() []string {
	return append([]string(nil), f.tokens...)
}

// AddOverlayFlag registers a repeatable overlay flag on a pflag.FlagSet.
func AddOverlayFlag(fs *pflag.FlagSet, acc *Accumulator, name, shorthand, usage string) *OverlayFlag {
	f := NewOverlayFlag(acc)
	fs.VarP(f, name, shorthand, usage)
	return f
}
