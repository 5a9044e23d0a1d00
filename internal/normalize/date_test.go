package normalize

import (
	"errors"
	"testing"

	"github.com/wikicurator/artbot/internal/model"
)

func TestDate_RecognizedForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Inception
	}{
		{"exact year", "1884", model.Inception{Kind: model.InceptionExact, Year: 1884}},
		{"circa abbreviated", "c. 1884", model.Inception{Kind: model.InceptionExactApprox, Year: 1884}},
		{"circa no space", "c.1884", model.Inception{Kind: model.InceptionExactApprox, Year: 1884}},
		{"circa spelled out", "circa 1884", model.Inception{Kind: model.InceptionExactApprox, Year: 1884}},
		{"range", "1881-1882", model.Inception{Kind: model.InceptionRange, Start: 1881, End: 1882}},
		{"range with spaces", "1881 - 1882", model.Inception{Kind: model.InceptionRange, Start: 1881, End: 1882}},
		{"between", "between 1750 and 1760", model.Inception{Kind: model.InceptionRange, Start: 1750, End: 1760}},
		{"between uppercase", "Between 1750 And 1760", model.Inception{Kind: model.InceptionRange, Start: 1750, End: 1760}},
		{"after", "after 1750", model.Inception{Kind: model.InceptionExactAfter, Year: 1750}},
		{"after uppercase", "After 1750", model.Inception{Kind: model.InceptionExactAfter, Year: 1750}},
		{"circa range", "c. 1690-1700", model.Inception{Kind: model.InceptionRangeApprox, Start: 1690, End: 1700}},
		{"short period", "1884-86", model.Inception{Kind: model.InceptionRange, Start: 1884, End: 1886}},
		{"short period with spaces", "1884 - 86", model.Inception{Kind: model.InceptionRange, Start: 1884, End: 1886}},
		{"circa short period", "c. 1884-86", model.Inception{Kind: model.InceptionRangeApprox, Start: 1884, End: 1886}},
		{"surrounding whitespace", "  1884  ", model.Inception{Kind: model.InceptionExact, Year: 1884}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.text)
			if err != nil {
				t.Fatalf("Date(%q) returned error: %v", tt.text, err)
			}
			if got == nil {
				t.Fatalf("Date(%q) returned no inception", tt.text)
			}
			if *got != tt.want {
				t.Errorf("Date(%q) = %+v, want %+v", tt.text, *got, tt.want)
			}
		})
	}
}

func TestDate_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\t"} {
		got, err := Date(text)
		if err != nil {
			t.Errorf("Date(%q) returned error %v, want no inception", text, err)
		}
		if got != nil {
			t.Errorf("Date(%q) = %+v, want nil", text, got)
		}
	}
}

func TestDate_Unparseable(t *testing.T) {
	tests := []string{
		"not a date",
		"18th century",
		"84-86",            // short period needs the 4-digit start year
		"1884-1886-1888",   // anchored matching, no substring hits
		"painted in 1884",  // surrounding prose
		"between 1750 and", // truncated
		"1890-1880",        // inverted span
		"c. 1890-1880",
	}

	for _, text := range tests {
		got, err := Date(text)
		if err == nil {
			t.Errorf("Date(%q) = %+v, want UnparseableDateError", text, got)
			continue
		}
		var unparseable *UnparseableDateError
		if !errors.As(err, &unparseable) {
			t.Errorf("Date(%q) error = %v, want *UnparseableDateError", text, err)
			continue
		}
		if unparseable.Text != text {
			t.Errorf("error carries %q, want offending input %q", unparseable.Text, text)
		}
	}
}

func TestDate_PrecedenceAndIdempotence(t *testing.T) {
	// A full range must win over the short-period reading of its prefix
	got, err := Date("1690-1700")
	if err != nil {
		t.Fatalf("Date returned error: %v", err)
	}
	if got.Start != 1690 || got.End != 1700 {
		t.Errorf("got %+v, want 1690-1700", got)
	}

	// Same input, same output: no state leaks between calls
	for i := 0; i < 2; i++ {
		again, err := Date("1690-1700")
		if err != nil {
			t.Fatalf("repeat call returned error: %v", err)
		}
		if *again != *got {
			t.Errorf("repeat call = %+v, want %+v", again, got)
		}
	}
}
