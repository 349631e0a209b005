package populator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"text/template"
)

// funcsFor returns the helper functions exposed at a security level.
// Every helper is a pure string/value transformation; none can reach the
// host environment.
func funcsFor(level SecurityLevel) template.FuncMap {
	funcs := template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCase,
		"trim":  strings.TrimSpace,
	}
	if level == SecurityStrict {
		return funcs
	}

	funcs["join"] = strings.Join
	funcs["split"] = strings.Split
	funcs["replace"] = strings.ReplaceAll
	funcs["contains"] = strings.Contains
	funcs["default"] = defaultValue
	funcs["truncate"] = truncate
	funcs["length"] = lengthOf
	if level == SecurityStandard {
		return funcs
	}

	funcs["json"] = toJSON
	funcs["indent"] = indent
	funcs["wrap"] = wrap
	funcs["hasPrefix"] = strings.HasPrefix
	funcs["hasSuffix"] = strings.HasSuffix
	return funcs
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// truncate cuts a string to maxLen, appending "..." when it had to cut.
// For maxLen <= 3 the string is cut without an ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// defaultValue returns fallback when val is nil or an empty string.
// Other zero values (0, false) are kept.
func defaultValue(val, fallback any) any {
	if val == nil {
		return fallback
	}
	if s, ok := val.(string); ok && s == "" {
		return fallback
	}
	return val
}

// lengthOf returns the element count of a string, slice, or map.
func lengthOf(v any) int {
	if v == nil {
		return 0
	}
	if s, ok := v.(string); ok {
		return len(s)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return 0
}

// toJSON renders a value as pretty-printed JSON, falling back to the
// default string representation when marshaling fails.
func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// indent prefixes each line with the given number of spaces.
func indent(s string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// wrap re-flows text at the given width, breaking on word boundaries.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(s) {
		if lineLen > 0 && lineLen+1+len(word) > width {
			out.WriteString("\n")
			lineLen = 0
		} else if lineLen > 0 {
			out.WriteString(" ")
			lineLen++
		}
		out.WriteString(word)
		lineLen += len(word)
	}
	return out.String()
}
