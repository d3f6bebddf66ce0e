// FILE: lixenwraith/flagconf/decode.go
package flagconf

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Scan decodes the resolved configuration under basePath into target.
// The target must be a non-nil pointer to a struct or map; fields map through `toml` tags.
// A basePath that does not exist decodes an empty section.
func (c *Config) Scan(basePath string, target any) error {
	return c.unmarshal(basePath, "", target)
}

// ScanSource is like Scan but only sees values held by one source.
func (c *Config) ScanSource(basePath string, source Source, target any) error {
	return c.unmarshal(basePath, source, target)
}

// unmarshal is the single decoding path behind Scan and ScanSource
func (c *Config) unmarshal(basePath string, source Source, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("unmarshal target must be non-nil pointer, got %T", target)
	}

	c.mutex.RLock()
	var nestedMap map[string]any
	if source == "" {
		nestedMap = c.tree()
	} else {
		nestedMap = c.sourceTree(source)
	}
	c.mutex.RUnlock()

	sectionData := navigateToPath(nestedMap, basePath)

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		if sectionData != nil {
			return fmt.Errorf("path %q refers to non-map value (type %T)", basePath, sectionData)
		}
		sectionMap = make(map[string]any)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}

	return nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		arrayLiteralHookFunc(),
		leafTypeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// arrayLiteralHookFunc decodes "[a, b]" text held by a file or by Set into a slice
// with the same rules ParseValue applies to "-c" and env values.
func arrayLiteralHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || (t.Kind() != reflect.Slice && t.Kind() != reflect.Array) {
			return data, nil
		}
		if t == reflect.TypeOf(net.IP{}) {
			return data, nil
		}
		str := reflect.ValueOf(data).String()
		if !isArrayLiteral(str) {
			return data, nil
		}
		return ParseValue(str), nil
	}
}

// leafParser builds a value of one struct or byte-slice type from text
type leafParser func(string) (any, error)

var leafParsers = map[reflect.Type]leafParser{
	reflect.TypeOf(net.IP{}): func(s string) (any, error) {
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %q", s)
		}
		return ip, nil
	},
	reflect.TypeOf(net.IPNet{}): func(s string) (any, error) {
		_, ipnet, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		return ipnet, nil
	},
	reflect.TypeOf(url.URL{}): func(s string) (any, error) {
		if len(s) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(s))
		}
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		return u, nil
	},
}

// leafTypeHookFunc decodes text into the types registered as leaves (see isLeafStruct),
// for both value and pointer targets.
func leafTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		target := t
		if target.Kind() == reflect.Ptr {
			target = target.Elem()
		}
		parse, ok := leafParsers[target]
		if !ok {
			return data, nil
		}

		parsed, err := parse(reflect.ValueOf(data).String())
		if err != nil {
			return nil, err
		}

		// Parsers return the value for slices and a pointer for structs
		rv := reflect.ValueOf(parsed)
		switch {
		case t.Kind() == reflect.Ptr && rv.Kind() != reflect.Ptr:
			ptr := reflect.New(target)
			ptr.Elem().Set(rv)
			return ptr.Interface(), nil
		case t.Kind() != reflect.Ptr && rv.Kind() == reflect.Ptr:
			return rv.Elem().Interface(), nil
		}
		return parsed, nil
	}
}
