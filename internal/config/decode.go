package config

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Manifest values arrive as map[string]any from three decoders with different
// number types: TOML gives int64/float64, YAML gives int/uint64/float64 and
// JSON (with UseNumber) gives json.Number. These helpers normalize them.

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// asFloat returns any numeric value as float64
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asInt64 accepts only integral numbers
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// asUint64 accepts non-negative integers and decimal or 0x-prefixed strings
func asUint64(v any) (uint64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		n, err := strconv.ParseUint(s, base, 64)
		return n, err == nil
	}
	if n, ok := v.(uint64); ok {
		return n, true
	}
	i, ok := asInt64(v)
	if !ok || i < 0 {
		return 0, false
	}
	return uint64(i), true
}

// pick returns the value of the first alias present in m. Setting two
// aliases of the same key is an error.
func pick(m map[string]any, aliases ...string) (any, bool, error) {
	var (
		found string
		value any
	)
	for _, key := range aliases {
		v, ok := m[key]
		if !ok {
			continue
		}
		if found != "" {
			return nil, false, fmt.Errorf("both %q and %q are set", found, key)
		}
		found, value = key, v
	}
	return value, found != "", nil
}

func pickString(m map[string]any, aliases ...string) (string, bool, error) {
	v, ok, err := pick(m, aliases...)
	if err != nil || !ok {
		return "", ok, err
	}
	s, isString := v.(string)
	if !isString {
		return "", false, fmt.Errorf("%s must be a string", aliases[0])
	}
	return s, true, nil
}

func pickBool(m map[string]any, aliases ...string) (bool, bool, error) {
	v, ok, err := pick(m, aliases...)
	if err != nil || !ok {
		return false, ok, err
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false, fmt.Errorf("%s must be a boolean", aliases[0])
	}
	return b, true, nil
}

// unknownKeys returns the keys of m that are not in known, sorted
func unknownKeys(m map[string]any, known map[string]bool) []string {
	var out []string
	for k := range m {
		if !known[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func keySet(groups ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, g := range groups {
		for _, k := range g {
			set[k] = true
		}
	}
	return set
}
