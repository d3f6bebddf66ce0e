// FILE: lixenwraith/flagconf/value.go
package flagconf

import (
	"regexp"
	"strings"
)

// undefinedValue is the type of the Undefined sentinel.
type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined is stored for the literal text "undefined". It differs from nil (the literal "null"):
// the path counts as present in an Overlay, but the layered Config skips it so lower sources show through.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// arraySeparator splits array items on a comma and any whitespace that follows it.
// Whitespace covers the Unicode space separators and BOM, not only ASCII.
var arraySeparator = regexp.MustCompile(`,[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]*`)

// lineBreaks never appear inside an array literal.
const lineBreaks = "\r\n\u2028\u2029"

// ParseValue coerces the raw text of a command-line value into a typed value.
// It never fails; text that matches no special form is returned unchanged.
//
//	"true", "false"  -> bool
//	"null"           -> nil
//	"undefined"      -> Undefined
//	"[a, b]"         -> []any{"a", "b"} (items are coerced recursively)
//	"[]"             -> []any{}
func ParseValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "undefined":
		return Undefined
	case "null":
		return nil
	}

	if isArrayLiteral(raw) {
		items := arraySeparator.Split(raw[1:len(raw)-1], -1)
		// "[]" splits to a single empty item
		if len(items) == 1 && items[0] == "" {
			return []any{}
		}

		values := make([]any, len(items))
		for i, item := range items {
			values[i] = ParseValue(item)
		}
		return values
	}

	return raw
}

// isArrayLiteral checks for a value wrapped in square brackets.
// The brackets may not overlap, so a lone "[" or "]" is a plain string.
// Values spanning lines are never arrays.
func isArrayLiteral(s string) bool {
	return len(s) >= 2 &&
		strings.HasPrefix(s, "[") &&
		strings.HasSuffix(s, "]") &&
		!strings.ContainsAny(s, lineBreaks)
}
