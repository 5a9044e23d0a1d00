package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MediaRef points at a work that already exists in the media repository
type MediaRef struct {
	URL string `json:"url"`
}

// Lists are the per-venue local exclusion lists, produced by separate
// category-scraping runs. Works on these lists are never uploaded.
type Lists struct {
	// ExistingMedia maps accession (or TMS) numbers to their existing
	// media repository entry
	ExistingMedia map[string]MediaRef
	// SmallImages holds artwork ids whose image is under 20K, too small
	// to be worth loading
	SmallImages map[string]bool
}

// LoadLists reads the exclusion lists for a venue from dir. Both files are
// required; a load against missing lists would recreate known duplicates.
func LoadLists(dir, venueID string) (*Lists, error) {
	venueDir := filepath.Join(dir, venueID)

	existing, err := loadMediaRefs(filepath.Join(venueDir, "media_existing.json"))
	if err != nil {
		return nil, err
	}

	small, err := loadIDSet(filepath.Join(venueDir, "small_images.json"))
	if err != nil {
		return nil, err
	}

	return &Lists{ExistingMedia: existing, SmallImages: small}, nil
}

func loadMediaRefs(path string) (map[string]MediaRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}

	var refs map[string]MediaRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parse list %s: %w", path, err)
	}
	return refs, nil
}

func loadIDSet(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse list %s: %w", path, err)
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
