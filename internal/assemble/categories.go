package assemble

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Categories maps a catalogue category name to the item ids a work of that
// category is an instance of. A category can map to more than one item.
type Categories map[string][]string

// QIDs returns the instance-of items for a category, or nil when the
// category is unmapped
func (c Categories) QIDs(category string) []string {
	return c[category]
}

// LoadCategories reads a category mapping from a YAML file keyed by category
// name
func LoadCategories(path string) (Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories %s: %w", path, err)
	}

	var cats Categories
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("categories %s: no entries", path)
	}
	return cats, nil
}

// DefaultCategories covers the categories the catalogue uses today.
// Miscellaneous is deliberately absent; works filed there are skipped.
func DefaultCategories() Categories {
	return Categories{
		"Painting":        {"Q3305213"},
		"Drawing":         {"Q93184"},
		"Print":           {"Q11060274"},
		"Sculpture":       {"Q860861"},
		"Photograph":      {"Q125191"},
		"Watercolour":     {"Q3305213", "Q18761202"},
		"Miniature":       {"Q282129"},
		"Manuscript":      {"Q87167"},
		"Book":            {"Q571"},
		"Frame":           {"Q429785"},
		"Decorative Arts": {"Q72966924"},
		"Textile":         {"Q28823"},
	}
}
