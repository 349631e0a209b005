package prompt_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptkit/prompt"
)

func TestMessage_JSONShapes(t *testing.T) {
	text := prompt.NewTextMessage(prompt.RoleUser, "hello")
	data, err := json.Marshal(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hello"}`, string(data))

	multipart := prompt.Message{
		Role: prompt.RoleUser,
		Parts: []prompt.ContentPart{
			prompt.TextPart("look:"),
			prompt.ImagePart("https://example.com/cat.png"),
		},
	}
	data, err = json.Marshal(multipart)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"role": "user",
		"content": [
			{"type": "text", "text": "look:"},
			{"type": "image_url", "image_url": {"url": "https://example.com/cat.png"}}
		]
	}`, string(data))

	var decoded prompt.Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, multipart, decoded)
}

func TestMessage_Text(t *testing.T) {
	assert.Equal(t, "hi", prompt.NewTextMessage(prompt.RoleUser, "hi").Text())

	multipart := prompt.Message{
		Role: prompt.RoleUser,
		Parts: []prompt.ContentPart{
			prompt.TextPart("a"),
			prompt.ImagePart("https://example.com/x.png"),
			prompt.TextPart("b"),
		},
	}
	assert.Equal(t, "ab", multipart.Text())
}

func TestRole_Known(t *testing.T) {
	assert.True(t, prompt.RoleSystem.Known())
	assert.True(t, prompt.RoleUser.Known())
	assert.True(t, prompt.RoleAssistant.Known())
	assert.False(t, prompt.Role("tool").Known())
}
