package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/promptkit/prompt"
	"github.com/randalmurphal/promptkit/store"
)

const greetingDoc = `prompt:
  template: "Hello, {{name}}!"
  template_variables:
    - name
`

func newTestStore(t *testing.T) *store.Local {
	t.Helper()
	s, err := store.NewLocal(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocal_PushFetch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, "support", "greeting.yaml", []byte(greetingDoc)))

	data, err := s.Fetch(ctx, "support", "greeting.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, greetingDoc, string(data))
}

func TestLocal_FetchNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Fetch(ctx, "support", "missing.yaml", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrNotFound)
}

func TestLocal_RejectsPathEscapes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Fetch(ctx, "../outside", "greeting.yaml", "")
	require.Error(t, err)

	_, err = s.Fetch(ctx, "support", "../../etc/passwd", "")
	require.Error(t, err)
}

func TestLocal_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, "support", "b.yaml", []byte(greetingDoc)))
	require.NoError(t, s.Push(ctx, "support", "a.json", []byte(`{"prompt":{"template":"x"}}`)))
	require.NoError(t, s.Push(ctx, "support", "notes.txt", []byte("not a document")))

	names, err := s.List(ctx, "support")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.yaml"}, names)
}

func TestLocal_ListMissingRepo(t *testing.T) {
	s := newTestStore(t)

	_, err := s.List(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrNotFound)
}

func TestLoadTemplate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, "support", "greeting.yaml", []byte(greetingDoc)))

	tmpl, err := store.LoadTemplate(ctx, s, "support", "greeting.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, tmpl.Variables())

	got, err := tmpl.(*prompt.TextTemplate).Populate(map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original, err := prompt.NewTextTemplate("Summarize {{text}}.", prompt.Options{
		Metadata: map[string]any{"description": "summarizer"},
	})
	require.NoError(t, err)

	require.NoError(t, store.SaveTemplate(ctx, s, "tools", "summarize.json", original))

	loaded, err := store.LoadTemplate(ctx, s, "tools", "summarize.json", "")
	require.NoError(t, err)
	assert.Equal(t, original.Variables(), loaded.Variables())
	assert.Equal(t, "summarizer", loaded.Metadata()["description"])
}

func TestSaveLoadDictionary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := prompt.NewDictionary()
	first, err := prompt.NewTextTemplate("one {{a}}", prompt.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Add("first", first))

	require.NoError(t, store.SaveDictionary(ctx, s, "tools", "all.yaml", d))

	loaded, err := store.LoadDictionary(ctx, s, "tools", "all.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, loaded.Names())
}

func TestLocal_Watch(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Push(ctx, "support", "seed.yaml", []byte(greetingDoc)))

	updates, err := s.Watch(ctx, "support")
	require.NoError(t, err)

	require.NoError(t, s.Push(ctx, "support", "greeting.yaml", []byte(greetingDoc)))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case update, ok := <-updates:
			require.True(t, ok, "update channel closed early")
			if update.Filename == "greeting.yaml" && !update.Removed {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for watch update")
		}
	}
}
