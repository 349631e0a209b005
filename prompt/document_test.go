package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptkit/populator"
	"github.com/randalmurphal/promptkit/prompt"
)

const textDocYAML = `prompt:
  template: "Explain what {{concept}} is in {{programming_language}}."
  template_variables:
    - concept
    - programming_language
  metadata:
    description: "Concept explainer"
`

func TestParse_TextYAML(t *testing.T) {
	tmpl, err := prompt.Parse([]byte(textDocYAML), prompt.FormatYAML)
	require.NoError(t, err)

	text, ok := tmpl.(*prompt.TextTemplate)
	require.True(t, ok, "expected *TextTemplate, got %T", tmpl)
	assert.Equal(t, []string{"concept", "programming_language"}, text.Variables())
	assert.Equal(t, "Concept explainer", text.Metadata()["description"])

	got, err := text.Populate(map[string]any{
		"concept":              "closures",
		"programming_language": "Rust",
	})
	require.NoError(t, err)
	assert.Equal(t, "Explain what closures is in Rust.", got)
}

func TestParse_TextJSON(t *testing.T) {
	doc := `{
  "prompt": {
    "template": "Hello, {{name}}!",
    "template_variables": ["name"]
  }
}`
	tmpl, err := prompt.Parse([]byte(doc), prompt.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, prompt.KindText, tmpl.Kind())
	assert.Equal(t, []string{"name"}, tmpl.Variables())
}

func TestParse_TextTOML(t *testing.T) {
	doc := `[prompt]
template = "Hello, {{name}}!"
template_variables = ["name"]

[prompt.client_parameters]
temperature = 0.5
`
	tmpl, err := prompt.Parse([]byte(doc), prompt.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, tmpl.Variables())
	assert.Equal(t, 0.5, tmpl.ClientParameters()["temperature"])
}

func TestParse_ChatYAML(t *testing.T) {
	doc := `prompt:
  template:
    - role: system
      content: "You are a {{persona}}."
    - role: user
      content: "{{question}}"
`
	tmpl, err := prompt.Parse([]byte(doc), prompt.FormatYAML)
	require.NoError(t, err)

	chat, ok := tmpl.(*prompt.ChatTemplate)
	require.True(t, ok, "expected *ChatTemplate, got %T", tmpl)
	require.Len(t, chat.Messages(), 2)
	assert.Equal(t, prompt.RoleSystem, chat.Messages()[0].Role)
	assert.Equal(t, []string{"persona", "question"}, chat.Variables())
}

func TestParse_ChatMessagesAlias(t *testing.T) {
	doc := `prompt:
  messages:
    - role: user
      content: "Hi {{name}}"
`
	tmpl, err := prompt.Parse([]byte(doc), prompt.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, prompt.KindChat, tmpl.Kind())
}

func TestParse_ChatMultipartContent(t *testing.T) {
	doc := `prompt:
  template:
    - role: user
      content:
        - type: text
          text: "Describe {{subject}}:"
        - type: image_url
          image_url:
            url: "https://example.com/{{subject}}.png"
`
	tmpl, err := prompt.Parse([]byte(doc), prompt.FormatYAML)
	require.NoError(t, err)

	chat := tmpl.(*prompt.ChatTemplate)
	require.Len(t, chat.Messages(), 1)
	parts := chat.Messages()[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, prompt.PartText, parts[0].Type)
	assert.Equal(t, prompt.PartImageURL, parts[1].Type)
	assert.Equal(t, "https://example.com/{{subject}}.png", parts[1].ImageURL)
}

func TestParse_PopulatorSelection(t *testing.T) {
	doc := `prompt:
  template: "{{greeting}}, {{name}}!"
  populator: double_brace
  security_level: strict
`
	tmpl, err := prompt.Parse([]byte(doc), prompt.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, populator.NameDoubleBrace, tmpl.PopulatorName())
	assert.Equal(t, populator.SecurityStrict, tmpl.SecurityLevel())
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing prompt key",
			doc:  `template: "Hello"`,
		},
		{
			name: "extra top-level key",
			doc: `prompt:
  template: "Hello"
other: true
`,
		},
		{
			name: "template and messages together",
			doc: `prompt:
  template: "Hello"
  messages:
    - role: user
      content: hi
`,
		},
		{
			name: "template and dictionary together",
			doc: `prompt:
  template: "Hello"
  template_dictionary:
    a:
      template: "x"
`,
		},
		{
			name: "no template at all",
			doc: `prompt:
  metadata:
    note: empty
`,
		},
		{
			name: "unknown body key",
			doc: `prompt:
  template: "Hello"
  surprising: true
`,
		},
		{
			name: "template of the wrong type",
			doc: `prompt:
  template: 42
`,
		},
		{
			name: "variable declaration mismatch",
			doc: `prompt:
  template: "Hello, {{name}}!"
  template_variables:
    - name
    - unused
`,
		},
		{
			name: "empty declaration with variables in template",
			doc: `prompt:
  template: "Hello, {{name}}!"
  template_variables: []
`,
		},
		{
			name: "message without role",
			doc: `prompt:
  template:
    - content: "hi"
`,
		},
		{
			name: "unsupported part type",
			doc: `prompt:
  template:
    - role: user
      content:
        - type: audio
          text: "x"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prompt.Parse([]byte(tt.doc), prompt.FormatYAML)
			require.Error(t, err)
			assert.ErrorIs(t, err, prompt.ErrSchema)
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := prompt.Parse([]byte("{}"), prompt.Format("xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrUnknownFormat)
}

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]prompt.Format{
		"greeting.yaml": prompt.FormatYAML,
		"greeting.yml":  prompt.FormatYAML,
		"greeting.json": prompt.FormatJSON,
		"greeting.toml": prompt.FormatTOML,
	} {
		got, err := prompt.FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := prompt.FormatForPath("greeting.txt")
	assert.ErrorIs(t, err, prompt.ErrUnknownFormat)
}

func TestExport_RoundTrip(t *testing.T) {
	original, err := prompt.NewTextTemplate("Summarize {{text}} in {{word_count}} words.", prompt.Options{
		TemplateVariables: []string{"text", "word_count"},
		Metadata:          map[string]any{"description": "summarizer"},
		ClientParameters:  map[string]any{"model": "gpt-4"},
	})
	require.NoError(t, err)

	for _, format := range []prompt.Format{prompt.FormatYAML, prompt.FormatJSON, prompt.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := original.Export(format)
			require.NoError(t, err)

			parsed, err := prompt.Parse(data, format)
			require.NoError(t, err)

			text := parsed.(*prompt.TextTemplate)
			assert.Equal(t, original.Template(), text.Template())
			assert.Equal(t, original.Variables(), text.Variables())
			assert.Equal(t, "summarizer", text.Metadata()["description"])
			assert.Equal(t, "gpt-4", text.ClientParameters()["model"])
		})
	}
}

func TestExport_ChatRoundTrip(t *testing.T) {
	original, err := prompt.NewChatTemplate([]prompt.Message{
		prompt.NewTextMessage(prompt.RoleSystem, "You are a {{persona}}."),
		{
			Role: prompt.RoleUser,
			Parts: []prompt.ContentPart{
				prompt.TextPart("Describe {{subject}}:"),
				prompt.ImagePart("https://example.com/{{subject}}.png"),
			},
		},
	}, prompt.Options{
		Populator: populator.NameDoubleBrace,
	})
	require.NoError(t, err)

	for _, format := range []prompt.Format{prompt.FormatYAML, prompt.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := original.Export(format)
			require.NoError(t, err)

			parsed, err := prompt.Parse(data, format)
			require.NoError(t, err)

			chat := parsed.(*prompt.ChatTemplate)
			assert.Equal(t, original.Messages(), chat.Messages())
			assert.Equal(t, populator.NameDoubleBrace, chat.PopulatorName())
		})
	}
}

func TestExport_MultilineYAML(t *testing.T) {
	original, err := prompt.NewTextTemplate("First line {{a}}\nSecond line {{b}}\n", prompt.Options{})
	require.NoError(t, err)

	data, err := original.Export(prompt.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "template: |")

	parsed, err := prompt.Parse(data, prompt.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, original.Template(), parsed.(*prompt.TextTemplate).Template())
}
