package prompt

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/promptkit/populator"
)

// Document envelope keys. Every document has exactly one top-level
// "prompt" key; under it, exactly one of "template" and
// "template_dictionary" appears. "messages" is a legacy alias for
// "template" in chat documents and is normalized on load.
const (
	keyPrompt             = "prompt"
	keyTemplate           = "template"
	keyMessages           = "messages"
	keyTemplateDictionary = "template_dictionary"
	keyTemplateVariables  = "template_variables"
	keyMetadata           = "metadata"
	keyClientParameters   = "client_parameters"
	keyCustomData         = "custom_data"
	keyPopulator          = "populator"
	keySecurityLevel      = "security_level"
)

var singleBodyKeys = map[string]bool{
	keyTemplate:          true,
	keyTemplateVariables: true,
	keyMetadata:          true,
	keyClientParameters:  true,
	keyCustomData:        true,
	keyPopulator:         true,
	keySecurityLevel:     true,
}

var dictionaryBodyKeys = map[string]bool{
	keyTemplateDictionary: true,
	keyMetadata:           true,
	keyClientParameters:   true,
	keyCustomData:         true,
}

// Parse parses a single-template document and returns the variant
// decided by the shape of its template content: a *TextTemplate for a
// string, a *ChatTemplate for a message list.
func Parse(data []byte, format Format) (Template, error) {
	body, err := envelopeBody(data, format)
	if err != nil {
		return nil, err
	}
	if _, ok := body[keyTemplateDictionary]; ok {
		if hasTemplateKey(body) {
			return nil, schemaErrorf(keyPrompt, "exactly one of %q and %q may be present",
				keyTemplate, keyTemplateDictionary)
		}
		return nil, schemaErrorf(keyPrompt, "document contains a %q; use ParseDictionary",
			keyTemplateDictionary)
	}
	return buildSingle(body, keyPrompt)
}

// ParseDictionary parses a multi-template document. The parse is
// transactional: if any entry fails validation, the whole parse fails
// and no partially-constructed dictionary is returned.
func ParseDictionary(data []byte, format Format) (*Dictionary, error) {
	body, err := envelopeBody(data, format)
	if err != nil {
		return nil, err
	}

	rawDict, ok := body[keyTemplateDictionary]
	if !ok {
		return nil, schemaErrorf(keyPrompt, "missing %q key", keyTemplateDictionary)
	}
	if hasTemplateKey(body) {
		return nil, schemaErrorf(keyPrompt, "exactly one of %q and %q may be present",
			keyTemplate, keyTemplateDictionary)
	}
	for key := range body {
		if !dictionaryBodyKeys[key] {
			return nil, schemaErrorf(keyPrompt+"."+key, "unknown key")
		}
	}

	dict, ok := rawDict.(map[string]any)
	if !ok {
		return nil, schemaErrorf(keyPrompt+"."+keyTemplateDictionary, "must be a mapping of name to template")
	}

	d := NewDictionary()
	for _, name := range dictionaryOrder(data, format, dict) {
		entryBody, ok := dict[name].(map[string]any)
		if !ok {
			return nil, schemaErrorf(fmt.Sprintf("%s.%s.%s", keyPrompt, keyTemplateDictionary, name),
				"entry must be a mapping")
		}
		entry, err := buildSingle(entryBody, fmt.Sprintf("%s.%s.%s", keyPrompt, keyTemplateDictionary, name))
		if err != nil {
			return nil, err
		}
		if err := d.Add(name, entry); err != nil {
			return nil, err
		}
	}

	opts, err := buildOptions(body, keyPrompt)
	if err != nil {
		return nil, err
	}
	d.metadata = copyMap(opts.Metadata)
	d.clientParameters = copyMap(opts.ClientParameters)
	d.customData = copyMap(opts.CustomData)
	return d, nil
}

// envelopeBody decodes the document and unwraps the prompt envelope.
func envelopeBody(data []byte, format Format) (map[string]any, error) {
	var tree map[string]any
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a YAML subset; one decoder covers both.
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, schemaErrorf("", "cannot parse document: %v", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, schemaErrorf("", "cannot parse document: %v", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, string(format))
	}

	raw, ok := tree[keyPrompt]
	if !ok {
		return nil, schemaErrorf(keyPrompt, "missing top-level %q key", keyPrompt)
	}
	for key := range tree {
		if key != keyPrompt {
			return nil, schemaErrorf(key, "unexpected top-level key")
		}
	}
	body, ok := raw.(map[string]any)
	if !ok {
		return nil, schemaErrorf(keyPrompt, "must be a mapping")
	}
	return body, nil
}

func hasTemplateKey(body map[string]any) bool {
	if _, ok := body[keyTemplate]; ok {
		return true
	}
	_, ok := body[keyMessages]
	return ok
}

// buildSingle constructs one template from an envelope body, normalizing
// the legacy messages alias first.
func buildSingle(body map[string]any, field string) (Template, error) {
	normalized := make(map[string]any, len(body))
	for k, v := range body {
		normalized[k] = v
	}
	if msgs, ok := normalized[keyMessages]; ok {
		if _, dup := normalized[keyTemplate]; dup {
			return nil, schemaErrorf(field, "%q and its alias %q are mutually exclusive",
				keyTemplate, keyMessages)
		}
		normalized[keyTemplate] = msgs
		delete(normalized, keyMessages)
	}

	for key := range normalized {
		if !singleBodyKeys[key] {
			return nil, schemaErrorf(field+"."+key, "unknown key")
		}
	}

	raw, ok := normalized[keyTemplate]
	if !ok {
		return nil, schemaErrorf(field, "missing %q key", keyTemplate)
	}

	opts, err := buildOptions(normalized, field)
	if err != nil {
		return nil, err
	}

	switch content := raw.(type) {
	case string:
		return NewTextTemplate(content, opts)
	case []any:
		messages, err := buildMessages(content, field+"."+keyTemplate)
		if err != nil {
			return nil, err
		}
		return NewChatTemplate(messages, opts)
	case []map[string]any:
		// TOML arrays of tables decode with this concrete type.
		list := make([]any, len(content))
		for i, entry := range content {
			list[i] = entry
		}
		messages, err := buildMessages(list, field+"."+keyTemplate)
		if err != nil {
			return nil, err
		}
		return NewChatTemplate(messages, opts)
	default:
		return nil, schemaErrorf(field+"."+keyTemplate,
			"must be a string or a list of role/content messages, got %T", raw)
	}
}

// buildOptions reads the optional sibling keys shared by single
// templates and dictionaries.
func buildOptions(body map[string]any, field string) (Options, error) {
	var opts Options

	if raw, ok := body[keyTemplateVariables]; ok {
		names, err := castStrings(raw, field+"."+keyTemplateVariables)
		if err != nil {
			return opts, err
		}
		opts.TemplateVariables = names
	}

	for key, dst := range map[string]*map[string]any{
		keyMetadata:         &opts.Metadata,
		keyClientParameters: &opts.ClientParameters,
		keyCustomData:       &opts.CustomData,
	} {
		raw, ok := body[key]
		if !ok {
			continue
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return opts, schemaErrorf(field+"."+key, "must be a mapping, got %T", raw)
		}
		*dst = m
	}

	if raw, ok := body[keyPopulator]; ok {
		name, ok := raw.(string)
		if !ok {
			return opts, schemaErrorf(field+"."+keyPopulator, "must be a string, got %T", raw)
		}
		opts.Populator = name
	}
	if raw, ok := body[keySecurityLevel]; ok {
		level, ok := raw.(string)
		if !ok {
			return opts, schemaErrorf(field+"."+keySecurityLevel, "must be a string, got %T", raw)
		}
		opts.SecurityLevel = populator.SecurityLevel(level)
	}

	return opts, nil
}

func castStrings(raw any, field string) ([]string, error) {
	switch list := raw.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, schemaErrorf(field, "element %d must be a string, got %T", i, item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, schemaErrorf(field, "must be a list of strings, got %T", raw)
}

// buildMessages converts the generic document tree into Messages.
func buildMessages(list []any, field string) ([]Message, error) {
	messages := make([]Message, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErrorf(fmt.Sprintf("%s[%d]", field, i), "message must be a mapping, got %T", item)
		}
		msgField := fmt.Sprintf("%s[%d]", field, i)

		for key := range entry {
			if key != "role" && key != "content" {
				return nil, schemaErrorf(msgField+"."+key, "unknown key")
			}
		}

		role, ok := entry["role"].(string)
		if !ok || role == "" {
			return nil, schemaErrorf(msgField+".role", "message requires a non-empty string role")
		}

		rawContent, ok := entry["content"]
		if !ok {
			return nil, schemaErrorf(msgField, "message requires a content key")
		}

		msg := Message{Role: Role(role)}
		switch content := rawContent.(type) {
		case string:
			msg.Content = content
		case []any:
			parts, err := buildParts(content, msgField+".content")
			if err != nil {
				return nil, err
			}
			msg.Parts = parts
		case []map[string]any:
			list := make([]any, len(content))
			for i, entry := range content {
				list[i] = entry
			}
			parts, err := buildParts(list, msgField+".content")
			if err != nil {
				return nil, err
			}
			msg.Parts = parts
		default:
			return nil, schemaErrorf(msgField+".content",
				"must be a string or a list of content parts, got %T", rawContent)
		}
		messages[i] = msg
	}
	return messages, nil
}

func buildParts(list []any, field string) ([]ContentPart, error) {
	parts := make([]ContentPart, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErrorf(fmt.Sprintf("%s[%d]", field, i), "content part must be a mapping, got %T", item)
		}
		partField := fmt.Sprintf("%s[%d]", field, i)

		typ, ok := entry["type"].(string)
		if !ok {
			return nil, schemaErrorf(partField+".type", "content part requires a string type")
		}

		switch typ {
		case PartText:
			text, ok := entry["text"].(string)
			if !ok {
				return nil, schemaErrorf(partField+".text", "text part requires a string text")
			}
			parts[i] = TextPart(text)
		case PartImageURL:
			switch ref := entry["image_url"].(type) {
			case string:
				parts[i] = ImagePart(ref)
			case map[string]any:
				url, ok := ref["url"].(string)
				if !ok {
					return nil, schemaErrorf(partField+".image_url.url", "image_url part requires a string url")
				}
				parts[i] = ImagePart(url)
			default:
				return nil, schemaErrorf(partField+".image_url", "image_url part requires a url")
			}
		default:
			return nil, schemaErrorf(partField+".type", "unsupported content part type %q", typ)
		}
	}
	return parts, nil
}

// dictionaryOrder recovers the document order of dictionary entries.
// YAML and JSON mappings keep their written order; TOML tables do not,
// so TOML dictionaries fall back to lexical order.
func dictionaryOrder(data []byte, format Format, dict map[string]any) []string {
	if format == FormatTOML {
		return sortedKeys(dict)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return sortedKeys(dict)
	}
	promptNode := mappingValue(doc.Content[0], keyPrompt)
	if promptNode == nil {
		return sortedKeys(dict)
	}
	dictNode := mappingValue(promptNode, keyTemplateDictionary)
	if dictNode == nil || dictNode.Kind != yaml.MappingNode {
		return sortedKeys(dict)
	}

	names := make([]string, 0, len(dictNode.Content)/2)
	for i := 0; i+1 < len(dictNode.Content); i += 2 {
		names = append(names, dictNode.Content[i].Value)
	}
	return names
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
