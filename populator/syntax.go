package populator

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Escaped braces are masked with NUL-delimited sentinels before any
// pattern matching and restored in the rendered output. The sentinels
// cannot appear in well-formed template text.
const (
	maskedLeft  = "\x00lbrace\x00"
	maskedRight = "\x00rbrace\x00"
)

func maskEscapes(s string) string {
	s = strings.ReplaceAll(s, `\{{`, maskedLeft)
	s = strings.ReplaceAll(s, `\}}`, maskedRight)
	return s
}

func unmaskEscapes(s string) string {
	s = strings.ReplaceAll(s, maskedLeft, "{{")
	s = strings.ReplaceAll(s, maskedRight, "}}")
	return s
}

// checkBraces rejects placeholders that are opened but never closed, or
// that nest another opener before closing. A bare "}}" with no opener is
// treated as literal text.
func checkBraces(s string) error {
	for i := 0; i < len(s); {
		open := strings.Index(s[i:], "{{")
		if open < 0 {
			return nil
		}
		open += i
		rest := s[open+2:]
		closing := strings.Index(rest, "}}")
		nextOpen := strings.Index(rest, "{{")
		if closing < 0 || (nextOpen >= 0 && nextOpen < closing) {
			return &SyntaxError{Fragment: fragmentAt(s, open), Detail: "unclosed placeholder"}
		}
		i = open + 2 + closing + 2
	}
	return nil
}

// fragmentAt returns a short excerpt starting at offset, for error messages.
func fragmentAt(s string, offset int) string {
	const width = 24
	end := offset + width
	if end > len(s) {
		end = len(s)
	}
	return unmaskEscapes(s[offset:end])
}

var goTemplateKeywords = map[string]bool{
	"else":     true,
	"end":      true,
	"if":       true,
	"range":    true,
	"with":     true,
	"define":   true,
	"template": true,
	"block":    true,
}

// leadingIdent returns the identifier prefix of s, which may be empty.
func leadingIdent(s string) string {
	for i, ch := range s {
		isLower := ch >= 'a' && ch <= 'z'
		isUpper := ch >= 'A' && ch <= 'Z'
		isDigit := ch >= '0' && ch <= '9'
		if isDigit && i == 0 {
			return ""
		}
		if !isLower && !isUpper && !isDigit && ch != '_' {
			return s[:i]
		}
	}
	return s
}

func isValidIdentifier(s string) bool {
	return s != "" && leadingIdent(s) == s
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if ch == '-' && i == 0 {
			continue
		}
		if ch == '.' {
			continue
		}
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func isQuotedString(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)) ||
		(strings.HasPrefix(s, `'`) && strings.HasSuffix(s, `'`))
}

// splitReference splits a placeholder body into its root identifier and
// the remaining accessor path ("" for a bare variable).
func splitReference(ref string) (root, path string, err error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", "", &SyntaxError{Fragment: "{{" + ref + "}}", Detail: "empty placeholder"}
	}
	root = leadingIdent(trimmed)
	if root == "" {
		return "", "", &SyntaxError{
			Fragment: "{{" + ref + "}}",
			Detail:   "placeholder must start with an identifier",
		}
	}
	path = trimmed[len(root):]
	if path != "" && path[0] != '.' && path[0] != '[' {
		return "", "", &SyntaxError{
			Fragment: "{{" + ref + "}}",
			Detail:   "unsupported reference syntax",
		}
	}
	return root, path, nil
}

// resolvePath walks an accessor path ("", ".field", `["key"]`, "[0]", or
// a chain of those) into a structured binding. Accessor failures are
// render errors: the template was valid, the bound value did not have
// the requested shape.
func resolvePath(val any, path, ref string) (any, error) {
	for path != "" {
		switch path[0] {
		case '.':
			ident := leadingIdent(path[1:])
			if ident == "" {
				return nil, &SyntaxError{Fragment: "{{" + ref + "}}", Detail: "expected field name after '.'"}
			}
			next, err := lookupKey(val, ident, ref)
			if err != nil {
				return nil, err
			}
			val = next
			path = path[1+len(ident):]
		case '[':
			end := strings.IndexByte(path, ']')
			if end < 0 {
				return nil, &SyntaxError{Fragment: "{{" + ref + "}}", Detail: "unterminated index"}
			}
			key := strings.TrimSpace(path[1:end])
			switch {
			case isQuotedString(key):
				next, err := lookupKey(val, key[1:len(key)-1], ref)
				if err != nil {
					return nil, err
				}
				val = next
			case isNumber(key):
				idx, convErr := strconv.Atoi(key)
				if convErr != nil {
					return nil, &SyntaxError{Fragment: "{{" + ref + "}}", Detail: "invalid index " + key}
				}
				next, err := lookupIndex(val, idx, ref)
				if err != nil {
					return nil, err
				}
				val = next
			default:
				return nil, &SyntaxError{Fragment: "{{" + ref + "}}", Detail: "invalid index " + key}
			}
			path = path[end+1:]
		default:
			return nil, &SyntaxError{Fragment: "{{" + ref + "}}", Detail: "unsupported reference syntax"}
		}
	}
	return val, nil
}

func lookupKey(val any, key, ref string) (any, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, renderErrorf("cannot access %q in {{%s}}: value is %T, not a map", key, ref, val)
	}
	next, ok := m[key]
	if !ok {
		return nil, renderErrorf("key %q not found in {{%s}}", key, ref)
	}
	return next, nil
}

func lookupIndex(val any, idx int, ref string) (any, error) {
	s, ok := val.([]any)
	if !ok {
		return nil, renderErrorf("cannot index into {{%s}}: value is %T, not a list", ref, val)
	}
	if idx < 0 || idx >= len(s) {
		return nil, renderErrorf("index %d out of range in {{%s}} (length %d)", idx, ref, len(s))
	}
	return s[idx], nil
}

// stringify converts a bound value to text using the engine's default
// conversion. No locale-sensitive formatting is applied.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Extraction patterns. Roots are identifiers; accessor tails (dots and
// brackets) are matched but not captured.
var (
	simpleVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)((?:\.\w+|\[[^{}\[\]]*\])*)\s*\}\}`)
	controlPattern   = regexp.MustCompile(`\{\{#(?:if|each)\s+([a-zA-Z_]\w*)`)
	helperPattern    = regexp.MustCompile(`\{\{([a-zA-Z_]\w*)\s+([^{}]+)\}\}`)
)

// extractVariables returns the distinct variable roots referenced in a
// template, in order of first appearance. The input must already have
// escaped braces masked.
//
// The three reference forms are matched separately, then merged into a
// single position-ordered pass so first-appearance order holds across
// forms, not just within one.
func extractVariables(templateStr string, helpers map[string]bool) []string {
	type ref struct {
		pos  int
		name string
	}
	var refs []ref

	// Bare and dotted/indexed variables: {{name}}, {{obj.field}}, {{xs[0]}}.
	// A bare reference is always a variable, even when it shares a name
	// with a helper; helpers only apply when called with arguments.
	for _, m := range simpleVarPattern.FindAllStringSubmatchIndex(templateStr, -1) {
		name := templateStr[m[2]:m[3]]
		if goTemplateKeywords[name] {
			continue
		}
		refs = append(refs, ref{pos: m[0], name: name})
	}

	// Control constructs: {{#if flag}}, {{#each items}}
	for _, m := range controlPattern.FindAllStringSubmatchIndex(templateStr, -1) {
		refs = append(refs, ref{pos: m[0], name: templateStr[m[2]:m[3]]})
	}

	// Helper call arguments: {{truncate description 100}}
	for _, m := range helperPattern.FindAllStringSubmatchIndex(templateStr, -1) {
		if !helpers[templateStr[m[2]:m[3]]] {
			continue
		}
		for _, arg := range splitArguments(templateStr[m[4]:m[5]]) {
			arg = strings.TrimSpace(arg)
			root := leadingIdent(arg)
			if root == "" || isNumber(arg) || arg == "true" || arg == "false" {
				continue
			}
			refs = append(refs, ref{pos: m[0], name: root})
		}
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].pos < refs[j].pos })

	seen := make(map[string]bool, len(refs))
	var result []string
	for _, r := range refs {
		if !seen[r.name] {
			seen[r.name] = true
			result = append(result, r.name)
		}
	}
	return result
}

// splitArguments splits helper arguments while respecting quoted strings.
func splitArguments(args string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, ch := range args {
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
			current.WriteRune(ch)
		case inQuote && ch == quoteChar:
			inQuote = false
			current.WriteRune(ch)
		case !inQuote && ch == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
