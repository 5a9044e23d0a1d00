package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wikicurator/artbot/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return cfg
}

func TestNew_CategoryOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := "Painting:\n  - Q3305213\nTapestry:\n  - Q184296\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.CategoriesFile = path

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.categories.QIDs("Tapestry"); len(got) != 1 || got[0] != "Q184296" {
		t.Errorf("Tapestry = %v", got)
	}
	if got := p.categories.QIDs("Drawing"); got != nil {
		t.Errorf("override should replace the built-in table, got Drawing = %v", got)
	}
}

func TestNew_DefaultCategories(t *testing.T) {
	p, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.categories.QIDs("Drawing"); len(got) != 1 || got[0] != "Q93184" {
		t.Errorf("Drawing = %v", got)
	}
}

func TestNew_BadCategoriesFile(t *testing.T) {
	cfg := testConfig()
	cfg.CategoriesFile = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := New(cfg); err == nil {
		t.Error("expected error for missing categories file")
	}
}
