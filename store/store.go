package store

import (
	"context"

	"github.com/randalmurphal/promptkit/prompt"
)

// Store fetches and pushes raw document bytes. Implementations address
// a document by repository ID and filename; revision selects a
// version on backends that have them and is otherwise ignored.
type Store interface {
	// Fetch returns the document bytes. The error matches
	// prompt.ErrNotFound when the repository or file does not exist.
	Fetch(ctx context.Context, repoID, filename, revision string) ([]byte, error)

	// Push writes the document bytes, creating the repository if
	// needed and overwriting any existing file.
	Push(ctx context.Context, repoID, filename string, data []byte) error
}

// LoadTemplate fetches and parses a single-template document. The
// format is inferred from the filename extension.
func LoadTemplate(ctx context.Context, s Store, repoID, filename, revision string) (prompt.Template, error) {
	data, format, err := fetchDocument(ctx, s, repoID, filename, revision)
	if err != nil {
		return nil, err
	}
	return prompt.Parse(data, format)
}

// LoadDictionary fetches and parses a multi-template document.
func LoadDictionary(ctx context.Context, s Store, repoID, filename, revision string) (*prompt.Dictionary, error) {
	data, format, err := fetchDocument(ctx, s, repoID, filename, revision)
	if err != nil {
		return nil, err
	}
	return prompt.ParseDictionary(data, format)
}

// SaveTemplate exports the template in the format implied by the
// filename extension and pushes it.
func SaveTemplate(ctx context.Context, s Store, repoID, filename string, t prompt.Template) error {
	format, err := prompt.FormatForPath(filename)
	if err != nil {
		return err
	}
	data, err := t.Export(format)
	if err != nil {
		return err
	}
	return s.Push(ctx, repoID, filename, data)
}

// SaveDictionary exports the dictionary in the format implied by the
// filename extension and pushes it.
func SaveDictionary(ctx context.Context, s Store, repoID, filename string, d *prompt.Dictionary) error {
	format, err := prompt.FormatForPath(filename)
	if err != nil {
		return err
	}
	data, err := d.Export(format)
	if err != nil {
		return err
	}
	return s.Push(ctx, repoID, filename, data)
}

func fetchDocument(ctx context.Context, s Store, repoID, filename, revision string) ([]byte, prompt.Format, error) {
	format, err := prompt.FormatForPath(filename)
	if err != nil {
		return nil, "", err
	}
	data, err := s.Fetch(ctx, repoID, filename, revision)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}
