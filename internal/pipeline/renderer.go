package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wikicurator/artbot/internal/model"
)

// Renderer writes assembled records out in trial mode so a load can be
// inspected before anything touches the registry
type Renderer struct {
	dir    string // empty writes to stdout
	format string // json or yaml
	out    io.Writer
}

// NewRenderer creates a renderer for the given output directory and format
func NewRenderer(dir, format string) (*Renderer, error) {
	format = strings.ToLower(format)
	if format != "json" && format != "yaml" {
		return nil, fmt.Errorf("unknown output format %q (json or yaml)", format)
	}
	return &Renderer{dir: dir, format: format, out: os.Stdout}, nil
}

// Render writes every record. With a directory configured each record lands
// in its own file named by accession number; otherwise records stream to
// stdout.
func (r *Renderer) Render(records []*model.UploadRecord) error {
	if r.dir == "" {
		for _, rec := range records {
			data, err := r.encode(rec)
			if err != nil {
				return err
			}
			if _, err := r.out.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
		return nil
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, rec := range records {
		data, err := r.encode(rec)
		if err != nil {
			return err
		}
		path := filepath.Join(r.dir, safeFileName(rec.ID)+"."+r.format)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func (r *Renderer) encode(rec *model.UploadRecord) ([]byte, error) {
	switch r.format {
	case "yaml":
		data, err := yaml.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal record %s: %w", rec.ID, err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal record %s: %w", rec.ID, err)
		}
		return data, nil
	}
}

// safeFileName keeps accession numbers usable as file names
func safeFileName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, id)
}
