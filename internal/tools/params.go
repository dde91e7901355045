package tools

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
)

// Args are the arguments of one tool call, as decoded from JSON.
// Accessors assume Validate has already checked types against the schema.
type Args map[string]any

// String returns the string argument key, or "" when absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// StringOr returns the string argument key, or def when absent or empty.
func (a Args) StringOr(key, def string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return def
}

// Env returns the environment selector.
func (a Args) Env() string {
	return a.String(EnvParam)
}

// Int returns the whole-number argument key, or def when absent.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, fmt.Errorf("must be a number")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("must be a whole number")
	}
	return int(f), nil
}

// Strings returns the array-of-strings argument key.
func (a Args) Strings(key string) ([]string, error) {
	raw, ok := a[key].([]any)
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("item %d must be a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}

// StringMap returns the object argument key with scalar values rendered as strings.
func (a Args) StringMap(key string) (map[string]string, error) {
	raw, ok := a[key].(map[string]any)
	if !ok {
		return nil, nil
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			out[k] = v
		case bool:
			out[k] = strconv.FormatBool(v)
		default:
			f, ok := asFloat(v)
			if !ok {
				return nil, fmt.Errorf("value of %q must be a string, number or boolean", k)
			}
			out[k] = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return out, nil
}

// Segment escapes a caller-supplied identifier for use as one URL path segment.
func Segment(s string) string {
	return url.PathEscape(s)
}
