package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptkit/prompt"
)

const dictDocYAML = `prompt:
  template_dictionary:
    summarize:
      template: "Summarize: {{text}}"
    translate:
      template: "Translate {{text}} to {{language}}."
    assistant:
      template:
        - role: system
          content: "You are {{persona}}."
        - role: user
          content: "{{question}}"
  metadata:
    suite: "writing tools"
`

func TestParseDictionary(t *testing.T) {
	d, err := prompt.ParseDictionary([]byte(dictDocYAML), prompt.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"summarize", "translate", "assistant"}, d.Names())
	assert.Equal(t, "writing tools", d.Metadata()["suite"])

	summarize, err := d.Get("summarize")
	require.NoError(t, err)
	assert.Equal(t, prompt.KindText, summarize.Kind())

	assistant, err := d.Get("assistant")
	require.NoError(t, err)
	assert.Equal(t, prompt.KindChat, assistant.Kind())

	got, err := summarize.(*prompt.TextTemplate).Populate(map[string]any{"text": "the report"})
	require.NoError(t, err)
	assert.Equal(t, "Summarize: the report", got)
}

func TestParseDictionary_NotFound(t *testing.T) {
	d, err := prompt.ParseDictionary([]byte(dictDocYAML), prompt.FormatYAML)
	require.NoError(t, err)

	_, err = d.Get("nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrNotFound)
}

func TestParseDictionary_Transactional(t *testing.T) {
	doc := `prompt:
  template_dictionary:
    good:
      template: "fine {{x}}"
    bad:
      template: "uses {{x}}"
      template_variables:
        - wrong
`
	_, err := prompt.ParseDictionary([]byte(doc), prompt.FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrSchema)
}

func TestParseDictionary_RejectsSingleTemplateDoc(t *testing.T) {
	_, err := prompt.ParseDictionary([]byte(textDocYAML), prompt.FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrSchema)
}

func TestParse_RejectsDictionaryDoc(t *testing.T) {
	_, err := prompt.Parse([]byte(dictDocYAML), prompt.FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrSchema)
}

func TestParseDictionary_TOMLLexicalOrder(t *testing.T) {
	doc := `[prompt.template_dictionary.zeta]
template = "Z {{x}}"

[prompt.template_dictionary.alpha]
template = "A {{y}}"
`
	d, err := prompt.ParseDictionary([]byte(doc), prompt.FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, d.Names())
}

func TestDictionary_Build(t *testing.T) {
	d := prompt.NewDictionary()

	first, err := prompt.NewTextTemplate("one {{a}}", prompt.Options{})
	require.NoError(t, err)
	second, err := prompt.NewTextTemplate("two {{b}}", prompt.Options{})
	require.NoError(t, err)

	require.NoError(t, d.Add("first", first))
	require.NoError(t, d.Add("second", second))
	assert.Equal(t, []string{"first", "second"}, d.Names())

	err = d.Add("first", second)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrSchema)
}

func TestDictionary_ExportRoundTrip(t *testing.T) {
	original, err := prompt.ParseDictionary([]byte(dictDocYAML), prompt.FormatYAML)
	require.NoError(t, err)

	for _, format := range []prompt.Format{prompt.FormatYAML, prompt.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := original.Export(format)
			require.NoError(t, err)

			parsed, err := prompt.ParseDictionary(data, format)
			require.NoError(t, err)

			assert.Equal(t, original.Names(), parsed.Names())
			assert.Equal(t, original.Metadata(), parsed.Metadata())

			translate, err := parsed.Get("translate")
			require.NoError(t, err)
			assert.Equal(t, []string{"text", "language"}, translate.Variables())
		})
	}
}
