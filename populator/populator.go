package populator

import (
	"fmt"
	"sort"
	"sync"
)

// Populator renders a template string with caller-supplied bindings and
// reports the variables a template references.
//
// Implementations are safe for concurrent use: neither method mutates
// the populator or the template.
type Populator interface {
	// Populate substitutes vars into the template and returns the
	// rendered string. Every referenced variable must be bound; extra
	// bindings are ignored.
	Populate(template string, vars map[string]any) (string, error)

	// Variables returns the distinct variable names the template
	// references, in order of first appearance. Dotted or indexed
	// references contribute their root identifier only.
	Variables(template string) ([]string, error)
}

// SecurityLevel selects how much of the helper surface the expression
// engine exposes to templates.
type SecurityLevel string

// Supported security levels, from most to least restrictive.
const (
	SecurityStrict   SecurityLevel = "strict"
	SecurityStandard SecurityLevel = "standard"
	SecurityRelaxed  SecurityLevel = "relaxed"
)

// Built-in populator names.
const (
	// NameExpression is the expression-capable engine.
	NameExpression = "expression"

	// NameDoubleBrace is the strict {{variable}} substitution engine.
	NameDoubleBrace = "double_brace"

	// NameSingleBrace is the strict {variable} substitution engine.
	NameSingleBrace = "single_brace"
)

// Defaults applied when a template document does not select an engine.
const (
	DefaultName          = NameExpression
	DefaultSecurityLevel = SecurityStandard
)

// Factory creates a Populator at the given security level. Engines that
// have no security knob ignore the level.
type Factory func(level SecurityLevel) (Populator, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a populator factory to the registry.
// Panics if a populator with the same name is already registered.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("populator %q already registered", name))
	}
	registry[name] = factory
}

// New creates a Populator by name. Empty name and level select the
// defaults. Returns ErrUnknownPopulator for unregistered names.
func New(name string, level SecurityLevel) (Populator, error) {
	if name == "" {
		name = DefaultName
	}
	if level == "" {
		level = DefaultSecurityLevel
	}

	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPopulator, name)
	}
	return factory(level)
}

// Available returns the names of all registered populators, sorted.
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

// IsRegistered checks if a populator is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, ok := registry[name]
	return ok
}

func init() {
	Register(NameExpression, func(level SecurityLevel) (Populator, error) {
		return NewEngineAt(level)
	})
	Register(NameDoubleBrace, func(SecurityLevel) (Populator, error) {
		return DoubleBrace{}, nil
	})
	Register(NameSingleBrace, func(SecurityLevel) (Populator, error) {
		return SingleBrace{}, nil
	})
}
