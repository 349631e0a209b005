package clientformat

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/promptkit/prompt"
)

// GooglePrompt is the request shape of the Gemini generateContent API.
type GooglePrompt struct {
	SystemInstruction string          `json:"system_instruction,omitempty"`
	Contents          []GoogleContent `json:"contents"`
}

// GoogleContent is one conversation turn. Gemini names the assistant
// role "model".
type GoogleContent struct {
	Role  string       `json:"role"`
	Parts []GooglePart `json:"parts"`
}

// GooglePart is one piece of turn content.
type GooglePart struct {
	Text string `json:"text"`
}

// formatGoogle maps roles to user/model, folds content into parts, and
// lifts leading system messages into SystemInstruction.
func formatGoogle(messages []prompt.Message) (any, error) {
	var system []string
	i := 0
	for ; i < len(messages); i++ {
		msg := messages[i]
		if msg.Role != prompt.RoleSystem {
			break
		}
		if msg.IsMultipart() {
			return nil, fmt.Errorf("%w: message %d: system content must be plain text",
				ErrUnsupportedShape, i)
		}
		system = append(system, msg.Content)
	}

	contents := make([]GoogleContent, 0, len(messages)-i)
	for ; i < len(messages); i++ {
		msg := messages[i]
		var role string
		switch msg.Role {
		case prompt.RoleUser:
			role = "user"
		case prompt.RoleAssistant:
			role = "model"
		case prompt.RoleSystem:
			return nil, fmt.Errorf("%w: message %d: system message after conversation start",
				ErrUnsupportedShape, i)
		default:
			return nil, fmt.Errorf("%w: message %d has role %q", ErrUnsupportedShape, i, msg.Role)
		}

		var parts []GooglePart
		if !msg.IsMultipart() {
			parts = []GooglePart{{Text: msg.Content}}
		} else {
			for j, part := range msg.Parts {
				if part.Type != prompt.PartText {
					return nil, fmt.Errorf("%w: message %d part %d has type %q",
						ErrUnsupportedShape, i, j, part.Type)
				}
				parts = append(parts, GooglePart{Text: part.Text})
			}
		}
		contents = append(contents, GoogleContent{Role: role, Parts: parts})
	}

	return &GooglePrompt{
		SystemInstruction: strings.Join(system, "\n"),
		Contents:          contents,
	}, nil
}
