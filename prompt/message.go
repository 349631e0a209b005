package prompt

import (
	"encoding/json"
	"fmt"
)

// Role identifies the sender of a chat message. The vocabulary is open
// at the document level; client formatters declare which roles they can
// project.
type Role string

// Well-known message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Known reports whether the role is one of the well-known roles that
// every client formatter understands.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is one turn of a chat template or a populated chat prompt.
// Content holds plain text; Parts holds structured multi-part content.
// At most one of the two is set.
type Message struct {
	Role    Role
	Content string
	Parts   []ContentPart
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// IsMultipart returns true if the message carries structured content.
func (m Message) IsMultipart() bool { return len(m.Parts) > 0 }

// Text returns the textual content of the message. For multipart
// messages it concatenates the text parts.
func (m Message) Text() string {
	if !m.IsMultipart() {
		return m.Content
	}
	var text string
	for _, part := range m.Parts {
		if part.Type == PartText {
			text += part.Text
		}
	}
	return text
}

// Supported content part types.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// ContentPart is one piece of structured message content: text or an
// image reference.
type ContentPart struct {
	Type     string
	Text     string // when Type == PartText
	ImageURL string // when Type == PartImageURL
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart creates an image-reference content part.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImageURL, ImageURL: url}
}

func (m Message) validate(field string) error {
	if m.Role == "" {
		return schemaErrorf(field+".role", "role must not be empty")
	}
	if m.Content != "" && len(m.Parts) > 0 {
		return schemaErrorf(field+".content", "content must be a string or a list of parts, not both")
	}
	for i, part := range m.Parts {
		if err := part.validate(fmt.Sprintf("%s.content[%d]", field, i)); err != nil {
			return err
		}
	}
	return nil
}

func (p ContentPart) validate(field string) error {
	switch p.Type {
	case PartText:
		return nil
	case PartImageURL:
		if p.ImageURL == "" {
			return schemaErrorf(field, "image_url part requires a url")
		}
		return nil
	}
	return schemaErrorf(field, "unsupported content part type %q", p.Type)
}

// MarshalJSON writes the interchange shape: content is a plain string
// for text messages and a list of typed parts for multipart messages.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.IsMultipart() {
		return json.Marshal(struct {
			Role    Role          `json:"role"`
			Content []ContentPart `json:"content"`
		}{m.Role, m.Parts})
	}
	return json.Marshal(struct {
		Role    Role   `json:"role"`
		Content string `json:"content"`
	}{m.Role, m.Content})
}

// UnmarshalJSON accepts both content shapes.
func (m *Message) UnmarshalJSON(data []byte) error {
	var aux struct {
		Role    Role            `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Role = aux.Role
	m.Content = ""
	m.Parts = nil
	if len(aux.Content) == 0 {
		return nil
	}
	if aux.Content[0] == '[' {
		return json.Unmarshal(aux.Content, &m.Parts)
	}
	return json.Unmarshal(aux.Content, &m.Content)
}

// MarshalJSON writes the typed-part interchange shape, e.g.
// {"type":"text","text":...} or {"type":"image_url","image_url":{"url":...}}.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PartImageURL:
		return json.Marshal(struct {
			Type     string `json:"type"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		}{Type: p.Type, ImageURL: struct {
			URL string `json:"url"`
		}{p.ImageURL}})
	default:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{p.Type, p.Text})
	}
}

// UnmarshalJSON accepts the typed-part interchange shape.
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Type = aux.Type
	p.Text = aux.Text
	p.ImageURL = aux.ImageURL.URL
	return nil
}
