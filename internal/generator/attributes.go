package generator

import (
	"strings"

	"github.com/cmmoran/tsync/internal/model"
)

const marker = "tsync"

// HasMarker reports whether the declaration opted in with #[tsync].
func HasMarker(attrs []model.Attribute) bool {
	for _, a := range attrs {
		if a.HasSegment(marker) {
			return true
		}
	}
	return false
}

// GetArg looks for key inside the argument lists of attributes under
// namespace, last attribute first.
//
// For #[serde(tag = "type")], GetArg(attrs, "serde", "tag") returns "type".
// For #[derive(serde_repr::Serialize_repr)], GetArg(attrs, "derive",
// "Serialize_repr") returns "Serialize_repr". Entries of the form key(...)
// only report presence. Malformed entries are ignored.
func GetArg(attrs []model.Attribute, namespace, key string) (string, bool) {
	for i := len(attrs) - 1; i >= 0; i-- {
		a := attrs[i]
		if a.Args == "" || !a.HasSegment(namespace) {
			continue
		}
		for _, entry := range splitArgs(a.Args) {
			if v, ok := matchArg(entry, key); ok {
				return v, true
			}
		}
	}
	return "", false
}

// HasArg reports whether GetArg finds key.
func HasArg(attrs []model.Attribute, namespace, key string) bool {
	_, ok := GetArg(attrs, namespace, key)
	return ok
}

// Comments returns the trimmed text of every doc attribute in order.
func Comments(attrs []model.Attribute) []string {
	var out []string
	for _, a := range attrs {
		if !a.HasSegment("doc") || a.Value == "" {
			continue
		}
		out = append(out, strings.TrimSpace(unquote(a.Value)))
	}
	return out
}

func matchArg(entry, key string) (string, bool) {
	if eq := topLevelIndex(entry, '='); eq >= 0 {
		if strings.TrimSpace(entry[:eq]) != key {
			return "", false
		}
		return unquote(entry[eq+1:]), true
	}
	if open := strings.IndexByte(entry, '('); open >= 0 {
		return key, strings.TrimSpace(entry[:open]) == key
	}
	path := strings.Split(entry, "::")
	return key, strings.TrimSpace(path[len(path)-1]) == key
}

// splitArgs splits an attribute argument list on commas outside of string
// literals and nested delimiters.
func splitArgs(args string) []string {
	var (
		out   []string
		depth int
		start int
		inStr bool
	)
	for i := 0; i < len(args); i++ {
		c := args[i]
		switch {
		case inStr && c == '\\':
			i++
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			out = appendEntry(out, args[start:i])
			start = i + 1
		}
	}
	return appendEntry(out, args[start:])
}

func appendEntry(out []string, entry string) []string {
	if entry = strings.TrimSpace(entry); entry != "" {
		out = append(out, entry)
	}
	return out
}

// topLevelIndex returns the index of the first c outside string literals and
// nested delimiters, or -1.
func topLevelIndex(s string, c byte) int {
	depth, inStr := 0, false
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case inStr && ch == '\\':
			i++
		case ch == '"':
			inStr = !inStr
		case inStr:
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		case ch == c && depth == 0:
			return i
		}
	}
	return -1
}

// unquote removes the quotes of a string or raw string literal. Escapes are
// left as written.
func unquote(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "r") {
		if t := strings.TrimLeft(v[1:], "#"); strings.HasPrefix(t, `"`) {
			v = strings.TrimRight(t, "#")
		}
	}
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
