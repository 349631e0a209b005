package clientformat

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/promptkit/prompt"
)

// AnthropicPrompt is the request shape of the Anthropic Messages API:
// system content lives in its own top-level field, outside the turn
// list.
type AnthropicPrompt struct {
	System   string           `json:"system,omitempty"`
	Messages []prompt.Message `json:"messages"`
}

// formatAnthropic lifts a leading run of system messages into the
// System field, joined with newlines, and keeps the remaining turns.
// System messages after the first non-system turn have no Anthropic
// equivalent and fail the projection.
func formatAnthropic(messages []prompt.Message) (any, error) {
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

	turns := make([]prompt.Message, 0, len(messages)-i)
	for ; i < len(messages); i++ {
		msg := messages[i]
		switch msg.Role {
		case prompt.RoleUser, prompt.RoleAssistant:
		case prompt.RoleSystem:
			return nil, fmt.Errorf("%w: message %d: system message after conversation start",
				ErrUnsupportedShape, i)
		default:
			return nil, fmt.Errorf("%w: message %d has role %q", ErrUnsupportedShape, i, msg.Role)
		}
		for j, part := range msg.Parts {
			if part.Type == prompt.PartImageURL {
				return nil, fmt.Errorf("%w: message %d part %d: image URLs are not accepted by the messages API",
					ErrUnsupportedShape, i, j)
			}
		}
		turns = append(turns, msg)
	}

	return &AnthropicPrompt{
		System:   strings.Join(system, "\n"),
		Messages: turns,
	}, nil
}
