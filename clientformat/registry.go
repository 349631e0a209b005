package clientformat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/promptkit/prompt"
)

// Built-in client names.
const (
	ClientOpenAI    = "openai"
	ClientAnthropic = "anthropic"
	ClientGoogle    = "google"
)

// Formatter projects a populated message list into a client's request
// shape. The returned value is client specific; see the per-client
// result types.
type Formatter func(messages []prompt.Message) (any, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Formatter)
)

// Register adds a formatter under the given client name. It panics if
// the name is already taken; formatters are expected to be registered
// once, from init functions.
func Register(client string, f Formatter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[client]; exists {
		panic(fmt.Sprintf("clientformat: formatter %q already registered", client))
	}
	registry[client] = f
}

// ForClient projects messages into the named client's request shape.
func ForClient(client string, messages []prompt.Message) (any, error) {
	registryMu.RLock()
	f, ok := registry[client]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedClient, client)
	}
	return f(messages)
}

// Available returns the registered client names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a formatter exists for the client name.
func IsRegistered(client string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[client]
	return ok
}

func init() {
	Register(ClientOpenAI, formatOpenAI)
	Register(ClientAnthropic, formatAnthropic)
	Register(ClientGoogle, formatGoogle)
}
