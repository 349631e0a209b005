package populator

import (
	"errors"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New("", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	engine, ok := p.(*Engine)
	if !ok {
		t.Fatalf("default populator is %T, want *Engine", p)
	}
	if engine.Level() != DefaultSecurityLevel {
		t.Errorf("level = %s, want %s", engine.Level(), DefaultSecurityLevel)
	}
}

func TestNew_DoubleBrace(t *testing.T) {
	p, err := New(NameDoubleBrace, SecurityStrict)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := p.(DoubleBrace); !ok {
		t.Fatalf("populator is %T, want DoubleBrace", p)
	}
}

func TestNew_SingleBrace(t *testing.T) {
	p, err := New(NameSingleBrace, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := p.(SingleBrace); !ok {
		t.Fatalf("populator is %T, want SingleBrace", p)
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("jinja2", "")
	if !errors.Is(err, ErrUnknownPopulator) {
		t.Fatalf("expected ErrUnknownPopulator, got %v", err)
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(NameExpression, "paranoid")
	if !errors.Is(err, ErrUnknownSecurityLevel) {
		t.Fatalf("expected ErrUnknownSecurityLevel, got %v", err)
	}
}

func TestAvailable(t *testing.T) {
	names := Available()
	found := make(map[string]bool, len(names))
	for _, name := range names {
		found[name] = true
	}
	if !found[NameExpression] || !found[NameDoubleBrace] || !found[NameSingleBrace] {
		t.Errorf("Available() = %v, want all built-ins", names)
	}
	if !IsRegistered(NameExpression) {
		t.Error("IsRegistered(expression) = false")
	}
	if IsRegistered("jinja2") {
		t.Error("IsRegistered(jinja2) = true")
	}
}
