package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/wikicurator/artbot/internal/model"
)

// Provider generates description text for artwork records
type Provider interface {
	// Name returns the provider name
	Name() string

	// Describe generates a short description from the request
	Describe(ctx context.Context, req DescribeRequest) (*DescribeResponse, error)
}

// DescribeRequest carries the catalogue facts the provider may use. The
// provider sees only what the record already says; it never invents
// attributions or dates.
type DescribeRequest struct {
	Category   string
	ArtistName string
	Title      string
	Medium     string
	Date       string
	MaxTokens  int
}

// DescribeResponse is the provider's suggestion
type DescribeResponse struct {
	Description string
	Model       string
	TokensUsed  int
}

// NewProvider creates a provider from configuration. An empty provider name
// disables suggestions and returns nil, nil.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai)", cfg.Provider)
	}
}

// Describer wraps an optional provider. With no provider it is a no-op, so
// callers never branch on whether suggestions are enabled.
type Describer struct {
	provider Provider
}

// NewDescriber creates a describer; provider may be nil
func NewDescriber(provider Provider) *Describer {
	return &Describer{provider: provider}
}

// Enabled reports whether suggestions are configured
func (d *Describer) Enabled() bool {
	return d != nil && d.provider != nil
}

// Suggest proposes a description for a record that lacks one. It returns
// empty output when disabled, and never modifies the record itself; the
// caller decides what to do with the suggestion.
func (d *Describer) Suggest(ctx context.Context, req DescribeRequest) (string, error) {
	if !d.Enabled() {
		return "", nil
	}

	resp, err := d.provider.Describe(ctx, req)
	if err != nil {
		return "", fmt.Errorf("describe via %s: %w", d.provider.Name(), err)
	}
	return strings.TrimSpace(resp.Description), nil
}

// BuildPrompt constructs the description prompt. The provider is constrained
// to the supplied facts so suggestions stay verifiable against the record.
func BuildPrompt(req DescribeRequest) string {
	var b strings.Builder
	b.WriteString("Write a single short English description for a museum catalogue item, ")
	b.WriteString("in the style \"painting by Rembrandt\" or \"etching - attributed to Francisco Goya\". ")
	b.WriteString("Use ONLY the facts below. Do not add names, dates, or places that are not listed. ")
	b.WriteString("Respond with the description only, no quotes and no trailing period.\n\n")

	add := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	add("Category", req.Category)
	add("Artist", req.ArtistName)
	add("Title", req.Title)
	add("Medium", req.Medium)
	add("Date", req.Date)

	return b.String()
}
