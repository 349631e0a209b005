// Package prompt implements the prompt template interchange format:
// documents that carry a template, its declared variables, and opaque
// metadata across YAML, JSON, and TOML.
//
// # Documents
//
// Every document wraps its body in a single "prompt" key. The body
// holds either a template or a template_dictionary, never both:
//
//	prompt:
//	  template: "Explain what {{concept}} is in {{programming_language}}."
//	  template_variables:
//	    - concept
//	    - programming_language
//
// Chat templates use a message list as content ("messages" is accepted
// as a legacy alias for "template"):
//
//	prompt:
//	  template:
//	    - role: system
//	      content: You are a {{persona}}.
//	    - role: user
//	      content: "{{question}}"
//
// # Parsing and population
//
// Parse decides the template variant from the content shape:
//
//	t, err := prompt.Parse(data, prompt.FormatYAML)
//	switch t := t.(type) {
//	case *prompt.TextTemplate:
//	    s, err := t.Populate(map[string]any{...})
//	case *prompt.ChatTemplate:
//	    msgs, err := t.Populate(map[string]any{...})
//	}
//
// Population requires a binding for every template variable and
// reports all missing names in one error. Templates are immutable;
// population returns new values.
//
// # Dictionaries
//
// ParseDictionary loads a named collection of templates from one
// document. The parse is transactional and entry order is preserved
// for YAML and JSON sources.
//
// # Validation errors
//
// Structural problems surface as *SchemaError values matching
// ErrSchema via errors.Is; the Field path pinpoints the offending key.
package prompt
