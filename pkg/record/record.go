package record

import (
	"strings"
	"unicode"
)

// Record is one decoded sub-record keyed by field name.
type Record map[string]any

// Lookup returns the value of the first name present in rec with a non-nil
// value, or def when none matches. A nil rec is valid and yields def.
func Lookup(rec Record, names []string, def any) any {
	for _, name := range names {
		if v, ok := rec[name]; ok && v != nil {
			return v
		}
	}
	return def
}

// Names expands a snake_case field name into the candidate spellings the
// decoder may use: snake_case, PascalCase and camelCase, followed by extra.
func Names(snake string, extra ...string) []string {
	pascal := toPascal(snake)
	names := []string{snake}
	if pascal != snake {
		names = append(names, pascal)
	}
	if camel := lowerFirst(pascal); camel != pascal && camel != snake {
		names = append(names, camel)
	}
	for _, e := range extra {
		if !contains(names, e) {
			names = append(names, e)
		}
	}
	return names
}

func toPascal(snake string) string {
	parts := strings.Split(snake, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
