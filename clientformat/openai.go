package clientformat

import (
	"fmt"

	"github.com/randalmurphal/promptkit/prompt"
)

// formatOpenAI projects messages for the OpenAI chat completions API.
// The interchange message shape is already OpenAI's shape, so the
// projection only validates roles and part types and returns the list
// as []prompt.Message.
func formatOpenAI(messages []prompt.Message) (any, error) {
	for i, msg := range messages {
		if !msg.Role.Known() {
			return nil, fmt.Errorf("%w: message %d has role %q", ErrUnsupportedShape, i, msg.Role)
		}
		for j, part := range msg.Parts {
			switch part.Type {
			case prompt.PartText, prompt.PartImageURL:
			default:
				return nil, fmt.Errorf("%w: message %d part %d has type %q",
					ErrUnsupportedShape, i, j, part.Type)
			}
		}
	}
	out := make([]prompt.Message, len(messages))
	copy(out, messages)
	return out, nil
}
