package normalize

import (
	"fmt"
	"regexp"
)

// compiledMaterial is a material rule with its patterns ready to run.
// find is word-boundary-anchored on the left and open on the right so
// inflected forms ("engraved") still match; strip removes every occurrence
// of the bare pattern from the working text.
type compiledMaterial struct {
	id    string
	paint bool
	find  *regexp.Regexp
	strip *regexp.Regexp
}

type compiledSurface struct {
	id    string
	find  *regexp.Regexp
	strip *regexp.Regexp
	on    *regexp.Regexp // the "on <surface>" construction
}

// paintWord strips the literal word "paint" after a paint-type material
// matched, so the generic catch-all paint rule cannot fire on the same text
var paintWord = regexp.MustCompile(`(?i)paint`)

// MediumExtractor converts a free-text medium description into a set of
// material and surface identifiers. It is pure and safe for concurrent use;
// all per-call state lives in the working copy of the input.
type MediumExtractor struct {
	materials []compiledMaterial
	surfaces  []compiledSurface
}

// NewMediumExtractor compiles a rule set. Rule order is preserved: tables are
// listed most-specific-first and the first match per category wins the text.
func NewMediumExtractor(rs Ruleset) (*MediumExtractor, error) {
	e := &MediumExtractor{
		materials: make([]compiledMaterial, 0, len(rs.Materials)),
		surfaces:  make([]compiledSurface, 0, len(rs.Surfaces)),
	}

	for _, rule := range rs.Materials {
		find, err := regexp.Compile(`(?i)(^|\W)` + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("material rule %q: %w", rule.ID, err)
		}
		strip, err := regexp.Compile(`(?i)` + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("material rule %q: %w", rule.ID, err)
		}
		e.materials = append(e.materials, compiledMaterial{
			id:    rule.ID,
			paint: rule.Paint,
			find:  find,
			strip: strip,
		})
	}

	for _, rule := range rs.Surfaces {
		find, err := regexp.Compile(`(?i)(^|\W)` + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("surface rule %q: %w", rule.ID, err)
		}
		strip, err := regexp.Compile(`(?i)` + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("surface rule %q: %w", rule.ID, err)
		}
		on, err := regexp.Compile(`(?i)(^|\s)on\s+` + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("surface rule %q: %w", rule.ID, err)
		}
		e.surfaces = append(e.surfaces, compiledSurface{
			id:    rule.ID,
			find:  find,
			strip: strip,
			on:    on,
		})
	}

	return e, nil
}

// Extract parses a medium description ("oil on canvas") into a mapping from
// identifier to paint-bearing flag. It never fails: text matching nothing
// yields an empty mapping, and whether that is an error is the caller's call.
//
// Matched text is consumed from a working copy as rules fire, so a later,
// more general rule cannot re-match text already attributed to an earlier,
// more specific one.
func (e *MediumExtractor) Extract(text string) map[string]bool {
	result := make(map[string]bool)
	working := text
	sawPaint := false

	// Materials, in table order
	for _, m := range e.materials {
		if !m.find.MatchString(working) {
			continue
		}
		working = m.strip.ReplaceAllString(working, "")
		if m.paint {
			working = paintWord.ReplaceAllString(working, "")
			sawPaint = true
		}
		if _, ok := result[m.id]; !ok {
			result[m.id] = false
		}
	}

	// The "on <surface>" construction: a medium names at most one primary
	// support this way, so the first match in table order wins
	for _, s := range e.surfaces {
		if !s.on.MatchString(working) {
			continue
		}
		working = s.on.ReplaceAllString(working, "")
		result[s.id] = sawPaint
		break
	}

	// Bare surface mentions ("watercolour, paper"): not evidence of paint
	// application, so the flag stays false
	for _, s := range e.surfaces {
		if !s.find.MatchString(working) {
			continue
		}
		working = s.strip.ReplaceAllString(working, "")
		result[s.id] = false
	}

	return result
}
