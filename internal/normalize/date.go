package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wikicurator/artbot/internal/model"
)

// UnparseableDateError reports a non-empty date expression that matched none
// of the recognized forms. The caller decides whether to skip or abort the
// record; no partial or guessed year is ever produced.
type UnparseableDateError struct {
	Text string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable date %q", e.Text)
}

// dateRule pairs an anchored pattern with a constructor for the inception it
// yields. Rules are tried in declaration order: earlier, more specific forms
// can be prefixes of later ones and must win.
type dateRule struct {
	re    *regexp.Regexp
	build func(m []string) model.Inception
}

// The recognized date forms. All patterns are anchored to the whole string so
// surrounding prose never produces a false positive. The short-period forms
// reuse the start year's century digits for the end year; a record actually
// spanning a century boundary ("1899-02") is misread the same way the
// upstream data entry convention assumes it never happens.
var dateRules = []dateRule{
	{
		re: regexp.MustCompile(`^(\d{4})$`),
		build: func(m []string) model.Inception {
			return model.Inception{Kind: model.InceptionExact, Year: atoi(m[1])}
		},
	},
	{
		re: regexp.MustCompile(`^(c\.|circa)\s*(\d{4})$`),
		build: func(m []string) model.Inception {
			return model.Inception{Kind: model.InceptionExactApprox, Year: atoi(m[2])}
		},
	},
	{
		re: regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`),
		build: func(m []string) model.Inception {
			return model.Inception{Kind: model.InceptionRange, Start: atoi(m[1]), End: atoi(m[2])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^between\s*(\d{4})\s*and\s*(\d{4})$`),
		build: func(m []string) model.Inception {
			return model.Inception{Kind: model.InceptionRange, Start: atoi(m[1]), End: atoi(m[2])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^after\s*(\d{4})$`),
		build: func(m []string) model.Inception {
			return model.Inception{Kind: model.InceptionExactAfter, Year: atoi(m[1])}
		},
	},
	{
		re: regexp.MustCompile(`^c\.\s*(\d{4})\s*-\s*(\d{4})$`),
		build: func(m []string) model.Inception {
			return model.Inception{Kind: model.InceptionRangeApprox, Start: atoi(m[1]), End: atoi(m[2])}
		},
	},
	{
		re: regexp.MustCompile(`^(\d{2})(\d{2})\s*-\s*(\d{2})$`),
		build: func(m []string) model.Inception {
			return model.Inception{
				Kind:  model.InceptionRange,
				Start: atoi(m[1] + m[2]),
				End:   atoi(m[1] + m[3]),
			}
		},
	},
	{
		re: regexp.MustCompile(`^c\.\s*(\d{2})(\d{2})\s*-\s*(\d{2})$`),
		build: func(m []string) model.Inception {
			return model.Inception{
				Kind:  model.InceptionRangeApprox,
				Start: atoi(m[1] + m[2]),
				End:   atoi(m[1] + m[3]),
			}
		},
	},
}

// Date parses a free-text date expression into a normalized inception.
// An empty (or blank) expression yields (nil, nil): no inception, which is
// distinct from rejection. A non-empty expression that matches no recognized
// form fails with *UnparseableDateError.
func Date(text string) (*model.Inception, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	for _, rule := range dateRules {
		m := rule.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		inception := rule.build(m)
		// Inverted spans are data errors, not ranges
		if inception.IsRange() && inception.Start > inception.End {
			return nil, &UnparseableDateError{Text: text}
		}
		return &inception, nil
	}

	return nil, &UnparseableDateError{Text: text}
}

// atoi is safe here: every argument is a digits-only capture group
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
