package prompt

import "github.com/randalmurphal/promptkit/populator"

// TextTemplate is a prompt template whose content is a single string.
type TextTemplate struct {
	core
	template string
}

// NewTextTemplate constructs and validates a text template. The
// template's variables are extracted immediately; when opts declares
// template variables, the declaration must match the extracted set.
func NewTextTemplate(template string, opts Options) (*TextTemplate, error) {
	c, err := newCore(opts)
	if err != nil {
		return nil, err
	}

	extracted, err := c.pop.Variables(template)
	if err != nil {
		return nil, err
	}
	if err := c.checkDeclared(extracted); err != nil {
		return nil, err
	}

	return &TextTemplate{core: c, template: template}, nil
}

// Kind returns KindText.
func (t *TextTemplate) Kind() Kind { return KindText }

// Template returns the raw template string.
func (t *TextTemplate) Template() string { return t.template }

// Variables returns the template's variable names.
func (t *TextTemplate) Variables() []string { return t.variables() }

// Metadata returns a copy of the template's metadata mapping.
func (t *TextTemplate) Metadata() map[string]any { return copyMap(t.metadata) }

// ClientParameters returns a copy of the client-parameters mapping.
func (t *TextTemplate) ClientParameters() map[string]any { return copyMap(t.clientParameters) }

// CustomData returns a copy of the custom-data mapping.
func (t *TextTemplate) CustomData() map[string]any { return copyMap(t.customData) }

// PopulatorName returns the configured rendering engine name.
func (t *TextTemplate) PopulatorName() string { return t.populatorName }

// SecurityLevel returns the configured security level.
func (t *TextTemplate) SecurityLevel() populator.SecurityLevel { return t.level }

// Populate renders the template with the given bindings and returns the
// populated prompt string. Every template variable must be bound; extra
// bindings are ignored. The template itself is never mutated.
func (t *TextTemplate) Populate(vars map[string]any) (string, error) {
	if err := t.checkBindings(vars); err != nil {
		return "", err
	}
	return t.pop.Populate(t.template, vars)
}

func (t *TextTemplate) docBody() *omap {
	body := newOmap()
	body.set(keyTemplate, t.template)
	t.core.fillBody(body)
	return body
}
