// Package store loads and saves prompt template documents from
// storage backends.
//
// A Store addresses documents by repository ID and filename, with an
// optional revision for backends that version their content. Local is
// the filesystem backend: repositories are directories under a root,
// revisions are ignored.
//
//	s, err := store.NewLocal("/srv/prompts")
//	t, err := store.LoadTemplate(ctx, s, "support", "greeting.yaml", "")
//
// The document format is inferred from the filename extension.
//
// Watch observes a repository directory and reports document changes
// over a channel, using fsnotify with a polling fallback.
package store
