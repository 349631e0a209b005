// Package promptkit provides a prompt-template interchange format and a
// small runtime for loading, validating, and populating prompt templates.
//
// promptkit is a standalone toolkit designed to be imported à la
// carte. Templates are plain YAML, JSON, or TOML documents
// that can be shared across projects and languages; the runtime parses
// them, validates declared variables against the placeholders actually
// used, and renders them with caller-supplied values.
//
// Each subpackage can be used independently:
//
//   - prompt: Template entities (text and chat), document parsing,
//     export, and multi-template dictionaries
//   - populator: Rendering engines with {{variable}} syntax, optional
//     control flow, and configurable security levels
//   - clientformat: Projection of populated chat prompts into the shapes
//     expected by downstream LLM API families
//   - store: Filesystem-backed template repositories with change watching
//
// # Quick Start
//
// Load and populate a template:
//
//	import "github.com/randalmurphal/promptkit/prompt"
//	tmpl, _ := prompt.Parse(data, prompt.FormatYAML)
//	text, _ := tmpl.(*prompt.TextTemplate).Populate(map[string]any{
//	    "language": "French",
//	    "text":     "Hello world!",
//	})
//
// Format a populated chat prompt for a client:
//
//	import "github.com/randalmurphal/promptkit/clientformat"
//	msgs, _ := chatTmpl.Populate(vars)
//	body, _ := clientformat.ForClient(clientformat.ClientAnthropic, msgs)
//
// # Design Philosophy
//
// promptkit follows these principles:
//
//   - Templates are data, not code: documents round-trip losslessly
//   - Validation fails loudly: no silent downgrades, no empty-string
//     substitution for missing variables
//   - Each package usable independently
//   - Interfaces for extensibility, concrete types for simplicity
package promptkit
