package populator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

// Engine is the expression-capable populator. It supports {{variable}}
// substitution, #if/#each control flow, and helper functions, with the
// helper surface gated by a security level.
//
// Engines are safe for concurrent use once constructed; AddFunc must not
// be called concurrently with Populate.
type Engine struct {
	level   SecurityLevel
	funcs   template.FuncMap
	helpers map[string]bool
}

// NewEngine creates an expression engine at the standard security level.
func NewEngine() *Engine {
	e, err := NewEngineAt(SecurityStandard)
	if err != nil {
		panic(err) // unreachable: standard is always valid
	}
	return e
}

// NewEngineAt creates an expression engine at the given security level.
// An empty level selects the default. Returns ErrUnknownSecurityLevel
// for anything else.
func NewEngineAt(level SecurityLevel) (*Engine, error) {
	if level == "" {
		level = DefaultSecurityLevel
	}
	switch level {
	case SecurityStrict, SecurityStandard, SecurityRelaxed:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSecurityLevel, level)
	}

	funcs := funcsFor(level)
	helpers := make(map[string]bool, len(funcs))
	for name := range funcs {
		helpers[name] = true
	}
	return &Engine{level: level, funcs: funcs, helpers: helpers}, nil
}

// Level returns the engine's security level.
func (e *Engine) Level() SecurityLevel { return e.level }

// Helpers returns the names of the helper functions available to
// templates at this engine's security level, sorted.
func (e *Engine) Helpers() []string {
	names := make([]string, 0, len(e.helpers))
	for name := range e.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddFunc registers a custom helper function. Custom helpers run host
// code, so they are only permitted at the relaxed security level.
func (e *Engine) AddFunc(name string, fn any) error {
	if e.level != SecurityRelaxed {
		return fmt.Errorf("custom helpers require the %s security level (engine is %s)",
			SecurityRelaxed, e.level)
	}
	e.funcs[name] = fn
	e.helpers[name] = true
	return nil
}

// Populate renders the template with the given bindings. All referenced
// variables must be bound; the returned MissingVariablesError lists
// every absent name at once. Extra bindings are ignored.
func (e *Engine) Populate(templateStr string, vars map[string]any) (string, error) {
	masked := maskEscapes(templateStr)
	if err := checkBraces(masked); err != nil {
		return "", err
	}
	tmpl, err := e.parse(masked)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range extractVariables(masked, e.helpers) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingVariablesError{Missing: missing}
	}

	var buf strings.Builder
	if execErr := tmpl.Execute(&buf, vars); execErr != nil {
		return "", &RenderError{Detail: execErr.Error()}
	}
	return unmaskEscapes(buf.String()), nil
}

// Variables validates the template and returns the variable roots it
// references, in order of first appearance.
func (e *Engine) Variables(templateStr string) ([]string, error) {
	masked := maskEscapes(templateStr)
	if err := checkBraces(masked); err != nil {
		return nil, err
	}
	if _, err := e.parse(masked); err != nil {
		return nil, err
	}
	return extractVariables(masked, e.helpers), nil
}

func (e *Engine) parse(masked string) (*template.Template, error) {
	converted := convertSyntax(masked, e.helpers)
	tmpl, err := template.New("prompt").Funcs(e.funcs).Option("missingkey=error").Parse(converted)
	if err != nil {
		return nil, &SyntaxError{Fragment: syntaxFragment(masked, err), Detail: err.Error()}
	}
	return tmpl, nil
}

// syntaxFragment locates the template fragment a parse error refers to.
// Syntax conversion preserves line breaks, so the line number in the
// error maps back onto the unconverted template; the fragment starts at
// that line's first placeholder.
func syntaxFragment(masked string, err error) string {
	offset := 0
	for n := parseErrorLine(err.Error()); n > 1; n-- {
		nl := strings.IndexByte(masked[offset:], '\n')
		if nl < 0 {
			break
		}
		offset += nl + 1
	}
	if open := strings.Index(masked[offset:], "{{"); open >= 0 {
		offset += open
	}
	return fragmentAt(masked, offset)
}

// parseErrorLine extracts the line number from a text/template parse
// error, which reads "template: prompt:LINE: message".
func parseErrorLine(msg string) int {
	const name = "prompt:"
	i := strings.Index(msg, name)
	if i < 0 {
		return 1
	}
	rest := msg[i+len(name):]
	end := strings.IndexByte(rest, ':')
	if end < 0 {
		return 1
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
