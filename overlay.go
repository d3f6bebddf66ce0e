// FILE: lixenwraith/flagconf/overlay.go
package flagconf

import (
	"strings"

	"github.com/rs/zerolog"
)

// Overlay is the nested configuration built from "-c key=value" options.
// Tables are map[string]any; leaves are bool, nil, Undefined, string or []any.
// A nil Overlay means no valid option was seen.
type Overlay map[string]any

// Has reports whether any value, nil and Undefined included, is stored at path.
func (o Overlay) Has(path string) bool {
	return hasPath(o, path)
}

// Get returns the value stored at path.
func (o Overlay) Get(path string) (any, bool) {
	return getPath(o, path)
}

// Flatten returns the leaves keyed by their full dot-notation path.
func (o Overlay) Flatten() map[string]any {
	return flattenMap(o, "")
}

// Paths returns the full path of every leaf in lexical order.
func (o Overlay) Paths() []string {
	return sortedKeys(o.Flatten())
}

// Clone returns a deep copy. The copy of a nil Overlay is nil.
func (o Overlay) Clone() Overlay {
	return deepCopyMap(o)
}

// Accumulator folds "key=value" option tokens into an Overlay.
// Duplicate and malformed options are reported on the logger and never abort the fold.
type Accumulator struct {
	logger zerolog.Logger
}

// NewAccumulator creates an Accumulator reporting to logger.
func NewAccumulator(logger zerolog.Logger) *Accumulator {
	return &Accumulator{logger: logger}
}

// Accumulate parses one option token of the form "path=value" and installs the coerced
// value at the dotted path inside memo, returning memo for the next call.
//
// A token without "=" is ignored and memo is returned as is, so a nil memo stays nil.
// Only the first "=" splits; "foo=bar=42" stores "bar=42" at foo.
// The first write to a path wins: a later token for the same path is dropped with a warning.
func (a *Accumulator) Accumulate(token string, memo Overlay) Overlay {
	key, raw, found := strings.Cut(token, "=")
	if !found {
		return memo
	}

	if memo == nil {
		memo = make(Overlay)
	}

	if _, err := splitPath(key); err != nil {
		a.logger.Warn().Str("key", key).Err(err).Msg("invalid configuration key, ignoring")
		return memo
	}

	value := ParseValue(raw)

	if memo.Has(key) {
		a.logger.Warn().Str("key", key).Msg("configuration key was already specified, ignoring")
		return memo
	}

	if err := setPath(memo, key, value); err != nil {
		a.logger.Warn().Str("key", key).Err(err).Msg("configuration key conflicts with an earlier option, ignoring")
	}

	return memo
}

// Fold accumulates tokens in order starting from a nil Overlay.
// An empty token list, or one without any "key=value" token, yields nil.
func (a *Accumulator) Fold(tokens []string) Overlay {
	var memo Overlay
	for _, token := range tokens {
		memo = a.Accumulate(token, memo)
	}
	return memo
}
