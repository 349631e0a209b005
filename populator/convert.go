package populator

import (
	"regexp"
	"sort"
	"strings"
)

var (
	ifPattern   = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][\w.]*)\s*\}\}`)
	eachPattern = regexp.MustCompile(`\{\{#each\s+([a-zA-Z_][\w.]*)\s*\}\}`)
)

// convertSyntax converts the Handlebars-like template syntax to Go
// template syntax. The input must already have escaped braces masked.
//
// Conversions:
//   - {{variable}}            -> {{.variable}}
//   - {{obj.field}}           -> {{.obj.field}}
//   - {{obj["key"]}}          -> {{index .obj "key"}}
//   - {{#if x}}...{{/if}}     -> {{if .x}}...{{end}}
//   - {{#each xs}}...{{/each}} -> {{range .xs}}...{{end}}
//   - {{helper arg1 arg2}}    -> {{helper .arg1 .arg2}}
func convertSyntax(input string, helpers map[string]bool) string {
	result := input

	result = ifPattern.ReplaceAllString(result, "{{if .$1}}")
	result = strings.ReplaceAll(result, "{{/if}}", "{{end}}")

	result = eachPattern.ReplaceAllString(result, "{{range .$1}}")
	result = strings.ReplaceAll(result, "{{/each}}", "{{end}}")

	result = simpleVarPattern.ReplaceAllStringFunc(result, func(match string) string {
		sub := simpleVarPattern.FindStringSubmatch(match)
		root, path := sub[1], sub[2]
		if goTemplateKeywords[root] {
			return match
		}
		return "{{" + convertReference(root, path) + "}}"
	})

	result = convertHelperCalls(result, helpers)

	return result
}

// convertReference turns a root identifier plus accessor path into a Go
// template expression. Bracket accessors become index calls.
func convertReference(root, path string) string {
	expr := "." + root
	for path != "" {
		switch path[0] {
		case '.':
			ident := leadingIdent(path[1:])
			if ident == "" {
				return expr + path // let template.Parse report it
			}
			if strings.ContainsRune(expr, ' ') {
				expr = "(" + expr + ")"
			}
			expr += "." + ident
			path = path[1+len(ident):]
		case '[':
			end := strings.IndexByte(path, ']')
			if end < 0 {
				return expr + path
			}
			key := strings.TrimSpace(path[1:end])
			if strings.HasPrefix(key, "'") && strings.HasSuffix(key, "'") && len(key) >= 2 {
				key = `"` + key[1:len(key)-1] + `"`
			}
			base := expr
			if strings.ContainsRune(base, ' ') {
				base = "(" + base + ")"
			}
			expr = "index " + base + " " + key
			path = path[end+1:]
		default:
			return expr + path
		}
	}
	return expr
}

// convertHelperCalls rewrites helper invocations so bare identifier
// arguments become data references.
func convertHelperCalls(input string, helpers map[string]bool) string {
	names := make([]string, 0, len(helpers))
	for name := range helpers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, helper := range names {
		pattern := regexp.MustCompile(`\{\{` + helper + `\s+([^{}]+)\}\}`)
		input = pattern.ReplaceAllStringFunc(input, func(match string) string {
			argsStart := len("{{") + len(helper) + 1
			args := strings.TrimSpace(match[argsStart : len(match)-2])
			return "{{" + helper + " " + convertArguments(args) + "}}"
		})
	}
	return input
}

// convertArguments converts a space-separated argument list. Bare
// variable references gain a dot prefix; literals pass through.
func convertArguments(args string) string {
	parts := splitArguments(args)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, ".") || isNumber(part) || isQuotedString(part) {
			continue
		}
		if part == "true" || part == "false" {
			continue
		}
		root := leadingIdent(part)
		if root == "" {
			continue
		}
		converted := convertReference(root, part[len(root):])
		if strings.ContainsRune(converted, ' ') {
			converted = "(" + converted + ")"
		}
		parts[i] = converted
	}
	return strings.Join(parts, " ")
}
