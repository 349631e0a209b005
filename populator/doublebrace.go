package populator

import (
	"regexp"
	"sort"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// DoubleBrace is the strict-substitution populator: bare {{variable}}
// references only, no control flow and no helpers. Dotted and indexed
// references resolve into structured bindings at render time.
type DoubleBrace struct{}

// Variables returns the distinct variable roots referenced in the
// template, in order of first appearance.
func (DoubleBrace) Variables(templateStr string) ([]string, error) {
	masked := maskEscapes(templateStr)
	if err := checkBraces(masked); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(masked, -1) {
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
func (d DoubleBrace) Populate(templateStr string, vars map[string]any) (string, error) {
	masked := maskEscapes(templateStr)
	if err := checkBraces(masked); err != nil {
		return "", err
	}

	matches := placeholderPattern.FindAllStringSubmatch(masked, -1)

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
	out := placeholderPattern.ReplaceAllStringFunc(masked, func(match string) string {
		ref := match[2 : len(match)-2]
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
	return unmaskEscapes(out), nil
}
