package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/promptkit/populator"
)

// omap is an insertion-ordered string-keyed map. Export builds the
// envelope as an omap tree so every format emits keys in the canonical
// document order instead of the codec's own map ordering.
type omap struct {
	keys []string
	vals map[string]any
}

func newOmap() *omap {
	return &omap{vals: make(map[string]any)}
}

func (m *omap) set(key string, val any) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
}

// MarshalJSON emits the entries in insertion order.
func (m *omap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(m.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fillBody appends the optional sibling keys to an envelope body.
// Defaults are omitted so that a document round-trips to its minimal
// form: the default populator and security level are implied.
func (c *core) fillBody(body *omap) {
	if c.declaredPresent {
		declared := copyStrings(c.declared)
		if declared == nil {
			declared = []string{}
		}
		body.set(keyTemplateVariables, declared)
	}
	if len(c.metadata) > 0 {
		body.set(keyMetadata, c.metadata)
	}
	if len(c.clientParameters) > 0 {
		body.set(keyClientParameters, c.clientParameters)
	}
	if len(c.customData) > 0 {
		body.set(keyCustomData, c.customData)
	}
	if c.populatorName != populator.DefaultName {
		body.set(keyPopulator, c.populatorName)
	}
	if c.level != populator.DefaultSecurityLevel {
		body.set(keySecurityLevel, string(c.level))
	}
}

// messagesToTree converts messages to the generic document shape.
func messagesToTree(messages []Message) []any {
	out := make([]any, len(messages))
	for i, msg := range messages {
		entry := newOmap()
		entry.set("role", string(msg.Role))
		if !msg.IsMultipart() {
			entry.set("content", msg.Content)
			out[i] = entry
			continue
		}

		parts := make([]any, len(msg.Parts))
		for j, part := range msg.Parts {
			partMap := newOmap()
			partMap.set("type", part.Type)
			if part.Type == PartImageURL {
				urlMap := newOmap()
				urlMap.set("url", part.ImageURL)
				partMap.set("image_url", urlMap)
			} else {
				partMap.set("text", part.Text)
			}
			parts[j] = partMap
		}
		entry.set("content", parts)
		out[i] = entry
	}
	return out
}

// Export serializes the template to its document envelope.
func (t *TextTemplate) Export(format Format) ([]byte, error) {
	return exportEnvelope(t.docBody(), format)
}

// Export serializes the template to its document envelope.
func (t *ChatTemplate) Export(format Format) ([]byte, error) {
	return exportEnvelope(t.docBody(), format)
}

func exportEnvelope(body *omap, format Format) ([]byte, error) {
	doc := newOmap()
	doc.set(keyPrompt, body)

	switch format {
	case FormatYAML:
		node, err := valueToNode(doc)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(node)
	case FormatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(plainValue(doc)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, string(format))
}

// valueToNode builds a yaml.Node tree that preserves omap key order and
// renders multiline strings as literal block scalars.
func valueToNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *omap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.keys {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			valNode, err := valueToNode(val.vals[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, valNode)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			itemNode, err := valueToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	case string:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		if strings.Contains(val, "\n") {
			node.Style = yaml.LiteralStyle
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// plainValue flattens an omap tree into plain maps and slices for the
// TOML encoder, which orders table keys itself.
func plainValue(v any) any {
	switch val := v.(type) {
	case *omap:
		out := make(map[string]any, len(val.keys))
		for _, key := range val.keys {
			out[key] = plainValue(val.vals[key])
		}
		return out
	case []any:
		converted := make([]any, len(val))
		tables := len(val) > 0
		for i, item := range val {
			converted[i] = plainValue(item)
			if _, ok := converted[i].(map[string]any); !ok {
				tables = false
			}
		}
		if tables {
			// BurntSushi encodes []map[string]any as an array of
			// tables but rejects the same data typed as []any.
			out := make([]map[string]any, len(converted))
			for i, item := range converted {
				out[i] = item.(map[string]any)
			}
			return out
		}
		return converted
	default:
		return v
	}
}
