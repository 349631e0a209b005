package prompt

import "fmt"

// Dictionary is an ordered collection of named templates sharing one
// document envelope. Entry order follows the source document for YAML
// and JSON; TOML tables carry no order, so TOML dictionaries are
// lexically ordered.
type Dictionary struct {
	names            []string
	entries          map[string]Template
	metadata         map[string]any
	clientParameters map[string]any
	customData       map[string]any
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]Template)}
}

// Add appends a named template. Names are unique within a dictionary.
func (d *Dictionary) Add(name string, t Template) error {
	if name == "" {
		return schemaErrorf(keyTemplateDictionary, "template name must not be empty")
	}
	if _, exists := d.entries[name]; exists {
		return schemaErrorf(keyTemplateDictionary+"."+name, "duplicate template name")
	}
	d.names = append(d.names, name)
	d.entries[name] = t
	return nil
}

// Get returns the named template. The error matches ErrNotFound when no
// entry has that name.
func (d *Dictionary) Get(name string) (Template, error) {
	t, ok := d.entries[name]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// Names returns the entry names in dictionary order.
func (d *Dictionary) Names() []string {
	return copyStrings(d.names)
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.names) }

// Metadata returns a copy of the dictionary-level metadata mapping.
func (d *Dictionary) Metadata() map[string]any { return copyMap(d.metadata) }

// ClientParameters returns a copy of the dictionary-level
// client-parameters mapping.
func (d *Dictionary) ClientParameters() map[string]any { return copyMap(d.clientParameters) }

// CustomData returns a copy of the dictionary-level custom-data mapping.
func (d *Dictionary) CustomData() map[string]any { return copyMap(d.customData) }

// Export serializes the dictionary to its document envelope, preserving
// entry order.
func (d *Dictionary) Export(format Format) ([]byte, error) {
	dict := newOmap()
	for _, name := range d.names {
		dict.set(name, d.entries[name].docBody())
	}

	body := newOmap()
	body.set(keyTemplateDictionary, dict)
	if len(d.metadata) > 0 {
		body.set(keyMetadata, d.metadata)
	}
	if len(d.clientParameters) > 0 {
		body.set(keyClientParameters, d.clientParameters)
	}
	if len(d.customData) > 0 {
		body.set(keyCustomData, d.customData)
	}
	return exportEnvelope(body, format)
}
