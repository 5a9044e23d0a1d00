package normalize

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newDefaultExtractor(t *testing.T) *MediumExtractor {
	t.Helper()
	e, err := NewMediumExtractor(DefaultRuleset())
	if err != nil {
		t.Fatalf("NewMediumExtractor: %v", err)
	}
	return e
}

func TestMediumExtractor_Extract(t *testing.T) {
	e := newDefaultExtractor(t)

	tests := []struct {
		name string
		text string
		want map[string]bool
	}{
		{
			// Oil is paint-type, so the canvas it was applied on is
			// paint-bearing; the material itself carries false
			name: "oil on canvas",
			text: "oil on canvas",
			want: map[string]bool{"Q296955": false, "Q12321255": true},
		},
		{
			name: "case insensitive",
			text: "Oil on Canvas",
			want: map[string]bool{"Q296955": false, "Q12321255": true},
		},
		{
			// Bare surface mention without "on" is not paint application
			name: "watercolour beside paper",
			text: "watercolour, paper",
			want: map[string]bool{"Q22915256": false, "Q11472": false},
		},
		{
			name: "watercolour applied on paper",
			text: "watercolour on paper",
			want: map[string]bool{"Q22915256": false, "Q11472": true},
		},
		{
			// Gesso (paint-type) before the "on" clause makes the panel
			// paint-bearing even though gold leaf is not paint
			name: "gesso and gold leaf on panel",
			text: "gesso and gold leaf on panel",
			want: map[string]bool{"Q1514256": false, "Q929186": false, "Q1348059": true},
		},
		{
			name: "unrecognized material",
			text: "granite",
			want: map[string]bool{},
		},
		{
			name: "empty input",
			text: "",
			want: map[string]bool{},
		},
		{
			// Stripping "paint" after the oil match keeps the generic
			// catch-all paint rule from firing on the same text
			name: "oil paint on canvas",
			text: "oil paint on canvas",
			want: map[string]bool{"Q296955": false, "Q12321255": true},
		},
		{
			// Generic rule fires when nothing more specific matched
			name: "bare paint",
			text: "paint on board",
			want: map[string]bool{"Q174219": false, "Q18668582": true},
		},
		{
			// "gold leaf" consumes its text before the bare "gold" rule runs
			name: "gold leaf not gold",
			text: "gold leaf on vellum",
			want: map[string]bool{"Q929186": false, "Q378274": false},
		},
		{
			// "brown ink" wins over the generic ink rule
			name: "brown ink",
			text: "pen and brown ink",
			want: map[string]bool{"Q58344150": false},
		},
		{
			name: "inflected form",
			text: "engraved plate",
			want: map[string]bool{"Q11835431": false},
		},
		{
			name: "etching on laid paper",
			text: "etching on laid paper",
			want: map[string]bool{"Q186986": false, "Q1513685": false},
		},
		{
			// Only the first "on" surface in table order wins; the second
			// support comes through as a bare mention
			name: "two on clauses",
			text: "oil on canvas on panel",
			want: map[string]bool{"Q296955": false, "Q12321255": true, "Q1348059": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMediumExtractor_Idempotent(t *testing.T) {
	e := newDefaultExtractor(t)

	first := e.Extract("oil on canvas")
	second := e.Extract("oil on canvas")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat extraction differs: %v then %v", first, second)
	}
}

func TestMediumExtractor_CustomRuleset(t *testing.T) {
	rs := Ruleset{
		Materials: []MaterialRule{
			{Pattern: `fresco`, ID: "mat:fresco", Paint: true},
		},
		Surfaces: []SurfaceRule{
			{Pattern: `plaster`, ID: "sur:plaster"},
		},
	}

	e, err := NewMediumExtractor(rs)
	if err != nil {
		t.Fatalf("NewMediumExtractor: %v", err)
	}

	got := e.Extract("fresco on plaster")
	want := map[string]bool{"mat:fresco": false, "sur:plaster": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestMediumExtractor_BadPattern(t *testing.T) {
	rs := Ruleset{
		Materials: []MaterialRule{{Pattern: `oil(`, ID: "bad"}},
	}
	if _, err := NewMediumExtractor(rs); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestLoadRuleset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	content := `materials:
  - pattern: fresco
    id: mat:fresco
    paint: true
surfaces:
  - pattern: plaster
    id: sur:plaster
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("LoadRuleset: %v", err)
	}
	if len(rs.Materials) != 1 || len(rs.Surfaces) != 1 {
		t.Fatalf("unexpected rule counts: %d materials, %d surfaces", len(rs.Materials), len(rs.Surfaces))
	}
	if !rs.Materials[0].Paint {
		t.Error("paint flag not loaded")
	}

	if _, err := LoadRuleset(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
