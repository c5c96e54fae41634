package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != DefaultTemplates() {
		t.Error("empty path must return the default templates")
	}
}

func TestLoad_MergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "system: |\n  Custom system prompt with %d words.\nreview: |\n  Custom review for %s:%s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.System != "Custom system prompt with %d words.\n" {
		t.Errorf("system override not applied: %q", got.System)
	}
	if got.Review != "Custom review for %s:%s\n" {
		t.Errorf("review override not applied: %q", got.Review)
	}

	// Untouched fields keep their defaults.
	defaults := DefaultTemplates()
	if got.Commentary != defaults.Commentary {
		t.Error("commentary must keep its default")
	}
	if got.DataGatherer != defaults.DataGatherer {
		t.Error("data gatherer must keep its default")
	}
	if got.Research != defaults.Research {
		t.Error("research must keep its default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a configured but missing prompts file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("system: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
