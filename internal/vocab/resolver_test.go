package vocab

import (
	"errors"
	"testing"

	"github.com/ppiankov/ulancrm/internal/model"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	ctx, err := LoadContext("")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	r, err := ctx.Resolver([]string{"aat", "ulan", "tgn"})
	if err != nil {
		t.Fatalf("Resolver failed: %v", err)
	}
	return r
}

func TestResolver_Expand(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		in   string
		want string
	}{
		{"aat:300025103", "http://vocab.getty.edu/aat/300025103"},
		{"ulan:500115493", "http://vocab.getty.edu/ulan/500115493"},
		{"tgn:7008038-place", "http://vocab.getty.edu/tgn/7008038-place"},
		{"gvp:PersonConcept", "gvp:PersonConcept"},
		{"see aat:300025103", "see aat:300025103"},
		{"http://vocab.getty.edu/ulan/500115493", "http://vocab.getty.edu/ulan/500115493"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := r.Expand(tt.in); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolver_Validate(t *testing.T) {
	r := testResolver(t)

	valid := []string{
		"aat:300025103",
		"http://vocab.getty.edu/ulan/500115493",
		"https://vocab.getty.edu/ulan/500115493",
	}
	for _, id := range valid {
		if err := r.Validate(id); err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", id, err)
		}
	}

	invalid := []string{
		"",
		"aat:",
		"ulan",
		"aat:http://evil.example/x",
		"http://vocab.getty.edu/http://evil.example/",
	}
	for _, id := range invalid {
		err := r.Validate(id)
		if err == nil {
			t.Errorf("Validate(%q) expected error", id)
			continue
		}
		if !errors.Is(err, model.ErrInvalidIdentifier) {
			t.Errorf("Validate(%q) expected ErrInvalidIdentifier, got %v", id, err)
		}
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := testResolver(t)

	iri, err := r.Resolve("ulan:500115493")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if iri != "http://vocab.getty.edu/ulan/500115493" {
		t.Errorf("unexpected IRI: %s", iri)
	}

	if _, err := r.Resolve("x"); err == nil {
		t.Error("expected error for short identifier")
	}
}

func TestNewResolver_LongestPrefixWins(t *testing.T) {
	r := NewResolver(map[string]string{
		"ulan":    "http://example.org/ulan/",
		"ulanext": "http://example.org/ext/",
	})
	if got := r.Expand("ulanext:1"); got != "http://example.org/ext/1" {
		t.Errorf("unexpected expansion: %s", got)
	}
	if got := r.Expand("ulan:1"); got != "http://example.org/ulan/1" {
		t.Errorf("unexpected expansion: %s", got)
	}
}
