package core

import (
	"fmt"
	"strings"
	"time"
)

// Absent reports whether a value counts as missing: nil, empty string,
// empty sequence, empty object, false or zero.
func Absent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case bool:
		return !t
	case int:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}

// List returns v as a sequence.
func List(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// Object returns v as an object.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Label renders a scalar as a string; dates keep their YYYY-MM-DD form.
// Sequences and objects yield "".
func Label(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.DateOnly)
	case []any, map[string]any:
		return ""
	}
	return fmt.Sprint(v)
}

// Labels renders every scalar member of a sequence, skipping blanks.
func Labels(v any) []string {
	items, ok := List(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := Label(item); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Kind names the shape of a value for error messages.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64, float64:
		return "number"
	case []any, []string:
		return "list"
	case map[string]any:
		return "object"
	case time.Time:
		return "timestamp"
	}
	return fmt.Sprintf("%T", v)
}
