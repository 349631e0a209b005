package prompt

import (
	"fmt"
	"sort"

	"github.com/randalmurphal/promptkit/populator"
)

// Kind discriminates the two template variants. The variant is decided
// once, at parse or construction time, never by runtime shape checks.
type Kind string

// Template kinds.
const (
	KindText Kind = "text"
	KindChat Kind = "chat"
)

// Template is a prompt template: a text template or a chat template.
// Templates are immutable after construction; population produces a new
// value and never mutates the template, so a single instance is safe
// for concurrent use.
//
// The two implementations are *TextTemplate and *ChatTemplate; use a
// type switch (or Kind) to reach the variant-specific Populate method.
type Template interface {
	// Kind reports the template variant.
	Kind() Kind

	// Variables returns the template's variable names: the declared
	// list when one was provided, otherwise the extracted set in order
	// of first appearance.
	Variables() []string

	// Metadata returns the free-form metadata mapping. The mapping is
	// opaque to promptkit and never interpreted.
	Metadata() map[string]any

	// ClientParameters returns the downstream-inference parameters
	// mapping, passed through unmodified.
	ClientParameters() map[string]any

	// CustomData returns the consumer-defined extension mapping.
	CustomData() map[string]any

	// PopulatorName returns the name of the rendering engine the
	// template populates with.
	PopulatorName() string

	// SecurityLevel returns the engine's security level.
	SecurityLevel() populator.SecurityLevel

	// Export serializes the template back to its canonical document
	// envelope. Parsing the exported bytes reproduces the template.
	Export(format Format) ([]byte, error)

	// docBody builds the envelope body for export. Unexported: the
	// Template implementations live in this package.
	docBody() *omap
}

// Options configures template construction. The zero value selects the
// default populator at the default security level with no declared
// variables.
type Options struct {
	// TemplateVariables declares the template's variables. When non-nil,
	// it must exactly match (as a set) the variables extracted from the
	// template content, or construction fails with a SchemaError. An
	// empty non-nil list declares that the template uses no variables.
	TemplateVariables []string

	// Metadata, ClientParameters, and CustomData are opaque mappings
	// carried through parse and export untouched.
	Metadata         map[string]any
	ClientParameters map[string]any
	CustomData       map[string]any

	// Populator names the rendering engine. Empty selects the default
	// expression engine.
	Populator string

	// SecurityLevel sets the engine's sandbox strength. Empty selects
	// the standard level.
	SecurityLevel populator.SecurityLevel
}

// core carries the fields common to both template variants.
type core struct {
	declared         []string
	declaredPresent  bool
	extracted        []string
	metadata         map[string]any
	clientParameters map[string]any
	customData       map[string]any
	populatorName    string
	level            populator.SecurityLevel
	pop              populator.Populator
}

func newCore(opts Options) (core, error) {
	name := opts.Populator
	if name == "" {
		name = populator.DefaultName
	}
	level := opts.SecurityLevel
	if level == "" {
		level = populator.DefaultSecurityLevel
	}

	pop, err := populator.New(name, level)
	if err != nil {
		return core{}, fmt.Errorf("prompt.populator: %w", err)
	}

	return core{
		declared:         copyStrings(opts.TemplateVariables),
		declaredPresent:  opts.TemplateVariables != nil,
		metadata:         copyMap(opts.Metadata),
		clientParameters: copyMap(opts.ClientParameters),
		customData:       copyMap(opts.CustomData),
		populatorName:    name,
		level:            level,
		pop:              pop,
	}, nil
}

// checkDeclared validates declared variables against the extracted set.
// A nil declaration means "not declared" and always passes; an empty
// declared list is a real declaration and must match like any other.
func (c *core) checkDeclared(extracted []string) error {
	c.extracted = extracted
	if !c.declaredPresent {
		return nil
	}

	declaredSet := make(map[string]bool, len(c.declared))
	for _, name := range c.declared {
		declaredSet[name] = true
	}
	extractedSet := make(map[string]bool, len(extracted))
	for _, name := range extracted {
		extractedSet[name] = true
	}

	var undeclared, unused []string
	for name := range extractedSet {
		if !declaredSet[name] {
			undeclared = append(undeclared, name)
		}
	}
	for name := range declaredSet {
		if !extractedSet[name] {
			unused = append(unused, name)
		}
	}
	if len(undeclared) == 0 && len(unused) == 0 {
		return nil
	}

	sort.Strings(undeclared)
	sort.Strings(unused)
	detail := ""
	if len(undeclared) > 0 {
		detail = fmt.Sprintf("template uses variables not declared in template_variables: %v", undeclared)
	}
	if len(unused) > 0 {
		if detail != "" {
			detail += "; "
		}
		detail += fmt.Sprintf("template_variables declares variables not used in template: %v", unused)
	}
	return &SchemaError{Field: "template_variables", Detail: detail}
}

// requiredVariables returns the variables population must bind.
func (c *core) requiredVariables() []string {
	if c.declaredPresent {
		return c.declared
	}
	return c.extracted
}

// checkBindings enumerates every required variable absent from vars.
func (c *core) checkBindings(vars map[string]any) error {
	var missing []string
	for _, name := range c.requiredVariables() {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &populator.MissingVariablesError{Missing: missing}
	}
	return nil
}

func (c *core) variables() []string {
	if c.declaredPresent {
		return copyStrings(c.declared)
	}
	return copyStrings(c.extracted)
}

func copyStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func copyMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
