package clientformat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptkit/clientformat"
	"github.com/randalmurphal/promptkit/prompt"
)

func conversation() []prompt.Message {
	return []prompt.Message{
		prompt.NewTextMessage(prompt.RoleSystem, "Be brief."),
		prompt.NewTextMessage(prompt.RoleSystem, "Answer in French."),
		prompt.NewTextMessage(prompt.RoleUser, "Where is the library?"),
		prompt.NewTextMessage(prompt.RoleAssistant, "Rue Victor Hugo."),
	}
}

func TestForClient_OpenAI(t *testing.T) {
	out, err := clientformat.ForClient(clientformat.ClientOpenAI, conversation())
	require.NoError(t, err)

	messages, ok := out.([]prompt.Message)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, conversation(), messages)
}

func TestForClient_OpenAI_Idempotent(t *testing.T) {
	once, err := clientformat.ForClient(clientformat.ClientOpenAI, conversation())
	require.NoError(t, err)

	twice, err := clientformat.ForClient(clientformat.ClientOpenAI, once.([]prompt.Message))
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestForClient_OpenAI_UnknownRole(t *testing.T) {
	_, err := clientformat.ForClient(clientformat.ClientOpenAI, []prompt.Message{
		{Role: "tool", Content: "output"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, clientformat.ErrUnsupportedShape)
}

func TestForClient_Anthropic(t *testing.T) {
	out, err := clientformat.ForClient(clientformat.ClientAnthropic, conversation())
	require.NoError(t, err)

	result, ok := out.(*clientformat.AnthropicPrompt)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "Be brief.\nAnswer in French.", result.System)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, prompt.RoleUser, result.Messages[0].Role)
	assert.Equal(t, prompt.RoleAssistant, result.Messages[1].Role)
}

func TestForClient_Anthropic_LateSystemMessage(t *testing.T) {
	_, err := clientformat.ForClient(clientformat.ClientAnthropic, []prompt.Message{
		prompt.NewTextMessage(prompt.RoleUser, "hi"),
		prompt.NewTextMessage(prompt.RoleSystem, "too late"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, clientformat.ErrUnsupportedShape)
}

func TestForClient_Anthropic_NoSystem(t *testing.T) {
	out, err := clientformat.ForClient(clientformat.ClientAnthropic, []prompt.Message{
		prompt.NewTextMessage(prompt.RoleUser, "hi"),
	})
	require.NoError(t, err)

	result := out.(*clientformat.AnthropicPrompt)
	assert.Empty(t, result.System)
	require.Len(t, result.Messages, 1)
}

func TestForClient_Google(t *testing.T) {
	out, err := clientformat.ForClient(clientformat.ClientGoogle, conversation())
	require.NoError(t, err)

	result, ok := out.(*clientformat.GooglePrompt)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "Be brief.\nAnswer in French.", result.SystemInstruction)
	require.Len(t, result.Contents, 2)
	assert.Equal(t, "user", result.Contents[0].Role)
	assert.Equal(t, "model", result.Contents[1].Role)
	require.Len(t, result.Contents[0].Parts, 1)
	assert.Equal(t, "Where is the library?", result.Contents[0].Parts[0].Text)
}

func TestForClient_Google_MultipartText(t *testing.T) {
	out, err := clientformat.ForClient(clientformat.ClientGoogle, []prompt.Message{
		{
			Role: prompt.RoleUser,
			Parts: []prompt.ContentPart{
				prompt.TextPart("first"),
				prompt.TextPart("second"),
			},
		},
	})
	require.NoError(t, err)

	result := out.(*clientformat.GooglePrompt)
	require.Len(t, result.Contents, 1)
	require.Len(t, result.Contents[0].Parts, 2)
	assert.Equal(t, "second", result.Contents[0].Parts[1].Text)
}

func TestForClient_Unknown(t *testing.T) {
	_, err := clientformat.ForClient("cohere", conversation())
	require.Error(t, err)
	assert.ErrorIs(t, err, clientformat.ErrUnsupportedClient)
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []string{
		clientformat.ClientAnthropic,
		clientformat.ClientGoogle,
		clientformat.ClientOpenAI,
	}, clientformat.Available())
	assert.True(t, clientformat.IsRegistered(clientformat.ClientOpenAI))
	assert.False(t, clientformat.IsRegistered("cohere"))
}

func TestCreate(t *testing.T) {
	tmpl, err := prompt.NewChatTemplate([]prompt.Message{
		prompt.NewTextMessage(prompt.RoleSystem, "You are a {{persona}}."),
		prompt.NewTextMessage(prompt.RoleUser, "{{question}}"),
	}, prompt.Options{})
	require.NoError(t, err)

	out, err := clientformat.Create(tmpl, clientformat.ClientAnthropic, map[string]any{
		"persona":  "librarian",
		"question": "Recommend a novel.",
	})
	require.NoError(t, err)

	result := out.(*clientformat.AnthropicPrompt)
	assert.Equal(t, "You are a librarian.", result.System)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "Recommend a novel.", result.Messages[0].Content)
}

func TestCreate_MissingVariables(t *testing.T) {
	tmpl, err := prompt.NewChatTemplate([]prompt.Message{
		prompt.NewTextMessage(prompt.RoleUser, "{{question}}"),
	}, prompt.Options{})
	require.NoError(t, err)

	_, err = clientformat.Create(tmpl, clientformat.ClientOpenAI, nil)
	require.Error(t, err)
}
