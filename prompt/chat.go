package prompt

import (
	"fmt"

	"github.com/randalmurphal/promptkit/populator"
)

// ChatTemplate is a prompt template whose content is an ordered list of
// role/content messages.
type ChatTemplate struct {
	core
	messages []Message
}

// NewChatTemplate constructs and validates a chat template. Variables
// are extracted from the content of every message, including structured
// multi-part content, and unioned across the whole conversation.
func NewChatTemplate(messages []Message, opts Options) (*ChatTemplate, error) {
	c, err := newCore(opts)
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return nil, schemaErrorf("template", "chat template requires at least one message")
	}
	for i, msg := range messages {
		if err := msg.validate(fmt.Sprintf("template[%d]", i)); err != nil {
			return nil, err
		}
	}

	extracted, err := extractMessageVariables(c.pop, messages)
	if err != nil {
		return nil, err
	}
	if err := c.checkDeclared(extracted); err != nil {
		return nil, err
	}

	copied := make([]Message, len(messages))
	copy(copied, messages)
	return &ChatTemplate{core: c, messages: copied}, nil
}

// extractMessageVariables unions the variables found across every
// message, scanning plain content, text parts, and image URLs, without
// double-counting names shared between messages.
func extractMessageVariables(pop populator.Populator, messages []Message) ([]string, error) {
	seen := make(map[string]bool)
	var union []string
	scan := func(content string) error {
		names, err := pop.Variables(content)
		if err != nil {
			return err
		}
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				union = append(union, name)
			}
		}
		return nil
	}

	for _, msg := range messages {
		if !msg.IsMultipart() {
			if err := scan(msg.Content); err != nil {
				return nil, err
			}
			continue
		}
		for _, part := range msg.Parts {
			if err := scan(part.Text); err != nil {
				return nil, err
			}
			if err := scan(part.ImageURL); err != nil {
				return nil, err
			}
		}
	}
	return union, nil
}

// Kind returns KindChat.
func (t *ChatTemplate) Kind() Kind { return KindChat }

// Messages returns a copy of the template's message list.
func (t *ChatTemplate) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Variables returns the template's variable names.
func (t *ChatTemplate) Variables() []string { return t.variables() }

// Metadata returns a copy of the template's metadata mapping.
func (t *ChatTemplate) Metadata() map[string]any { return copyMap(t.metadata) }

// ClientParameters returns a copy of the client-parameters mapping.
func (t *ChatTemplate) ClientParameters() map[string]any { return copyMap(t.clientParameters) }

// CustomData returns a copy of the custom-data mapping.
func (t *ChatTemplate) CustomData() map[string]any { return copyMap(t.customData) }

// PopulatorName returns the configured rendering engine name.
func (t *ChatTemplate) PopulatorName() string { return t.populatorName }

// SecurityLevel returns the configured security level.
func (t *ChatTemplate) SecurityLevel() populator.SecurityLevel { return t.level }

// Populate renders every message's content with the given bindings and
// returns a new message list, preserving role and message order. Every
// template variable must be bound; the error lists all missing names at
// once. Extra bindings are ignored.
func (t *ChatTemplate) Populate(vars map[string]any) ([]Message, error) {
	if err := t.checkBindings(vars); err != nil {
		return nil, err
	}

	out := make([]Message, len(t.messages))
	for i, msg := range t.messages {
		rendered := Message{Role: msg.Role}
		if !msg.IsMultipart() {
			content, err := t.pop.Populate(msg.Content, vars)
			if err != nil {
				return nil, err
			}
			rendered.Content = content
			out[i] = rendered
			continue
		}

		rendered.Parts = make([]ContentPart, len(msg.Parts))
		for j, part := range msg.Parts {
			text, err := t.pop.Populate(part.Text, vars)
			if err != nil {
				return nil, err
			}
			url, err := t.pop.Populate(part.ImageURL, vars)
			if err != nil {
				return nil, err
			}
			rendered.Parts[j] = ContentPart{Type: part.Type, Text: text, ImageURL: url}
		}
		out[i] = rendered
	}
	return out, nil
}

func (t *ChatTemplate) docBody() *omap {
	body := newOmap()
	body.set(keyTemplate, messagesToTree(t.messages))
	t.core.fillBody(body)
	return body
}
