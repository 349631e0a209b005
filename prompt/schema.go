package prompt

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// schemaDocument mirrors the document envelope for schema generation.
// It exists only to be reflected; parsing goes through Parse.
type schemaDocument struct {
	Prompt schemaPrompt `json:"prompt" jsonschema:"title=Prompt body,description=Envelope body holding exactly one of template and template_dictionary"`
}

type schemaPrompt struct {
	Template           any            `json:"template,omitempty" jsonschema:"oneof_type=string;array,description=Template content: a plain string or a list of role/content messages"`
	TemplateDictionary map[string]any `json:"template_dictionary,omitempty" jsonschema:"description=Named collection of templates sharing one document"`
	TemplateVariables  []string       `json:"template_variables,omitempty" jsonschema:"description=Declared variable names; must match the variables the template uses"`
	Metadata           map[string]any `json:"metadata,omitempty" jsonschema:"description=Free-form metadata carried through untouched"`
	ClientParameters   map[string]any `json:"client_parameters,omitempty" jsonschema:"description=Downstream inference parameters carried through untouched"`
	CustomData         map[string]any `json:"custom_data,omitempty" jsonschema:"description=Consumer-defined extension data"`
	Populator          string         `json:"populator,omitempty" jsonschema:"enum=expression,enum=double_brace,enum=single_brace,description=Rendering engine name"`
	SecurityLevel      string         `json:"security_level,omitempty" jsonschema:"enum=strict,enum=standard,enum=relaxed,description=Rendering engine sandbox strength"`
}

// JSONSchema returns the JSON Schema describing the document envelope,
// suitable for editor integration and out-of-process validation.
func JSONSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&schemaDocument{})
	schema.Title = "Prompt template document"
	return json.MarshalIndent(schema, "", "  ")
}
