package populator

import (
	"regexp"
	"sort"
	"strings"
)

var singlePlaceholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// Single-brace templates escape literal braces with \{ and \}.
const (
	singleMaskedLeft  = "\x00slbrace\x00"
	singleMaskedRight = "\x00srbrace\x00"
)

func maskSingleEscapes(s string) string {
	s = strings.ReplaceAll(s, `\{`, singleMaskedLeft)
	s = strings.ReplaceAll(s, `\}`, singleMaskedRight)
	return s
}

func unmaskSingleEscapes(s string) string {
	s = strings.ReplaceAll(s, singleMaskedLeft, "{")
	s = strings.ReplaceAll(s, singleMaskedRight, "}")
	return s
}

// SingleBrace is the strict-substitution populator for {variable}
// placeholders: no control flow and no helpers. Dotted and indexed
// references resolve into structured bindings at render time, the same
// way DoubleBrace resolves them.
type SingleBrace struct{}

// Variables returns the distinct variable roots referenced in the
// template, in order of first appearance.
func (SingleBrace) Variables(templateStr string) ([]string, error) {
	masked := maskSingleEscapes(templateStr)

	seen := make(map[string]bool)
	var names []string
	for _, match := range singlePlaceholderPattern.FindAllStringSubmatch(masked, -1) {
		root, _, err := splitReference(match[1])
		if err != nil {
			return nil, err
		}
		if !seen[root] {
			seen[root] = true
			names = append(names, root)
		}
	}
	return names, nil
}

// Populate substitutes vars into the template. Every referenced root
// must be bound or a MissingVariablesError listing all absent names is
// returned; extra bindings are ignored.
func (s SingleBrace) Populate(templateStr string, vars map[string]any) (string, error) {
	masked := maskSingleEscapes(templateStr)

	matches := singlePlaceholderPattern.FindAllStringSubmatch(masked, -1)

	seenMissing := make(map[string]bool)
	var missing []string
	for _, match := range matches {
		root, _, err := splitReference(match[1])
		if err != nil {
			return "", err
		}
		if _, ok := vars[root]; !ok && !seenMissing[root] {
			seenMissing[root] = true
			missing = append(missing, root)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingVariablesError{Missing: missing}
	}

	var firstErr error
	out := singlePlaceholderPattern.ReplaceAllStringFunc(masked, func(match string) string {
		ref := match[1 : len(match)-1]
		root, path, _ := splitReference(ref)
		val, err := resolvePath(vars[root], path, ref)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return stringify(val)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return unmaskSingleEscapes(out), nil
}
