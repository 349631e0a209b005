package clientformat

import "github.com/randalmurphal/promptkit/prompt"

// Create populates a chat template and projects the result for the
// named client in one step.
func Create(t *prompt.ChatTemplate, client string, vars map[string]any) (any, error) {
	messages, err := t.Populate(vars)
	if err != nil {
		return nil, err
	}
	return ForClient(client, messages)
}
