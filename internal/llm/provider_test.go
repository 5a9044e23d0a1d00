package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/wikicurator/artbot/internal/model"
)

type mockProvider struct {
	response *DescribeResponse
	err      error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Describe(ctx context.Context, req DescribeRequest) (*DescribeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestNewProvider(t *testing.T) {
	if p, err := NewProvider(model.LLMConfig{}); p != nil || err != nil {
		t.Errorf("empty provider should disable: %v %v", p, err)
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "openai", APIKey: "k"}); err != nil {
		t.Errorf("openai provider: %v", err)
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("expected error for openai without api key")
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "martian"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestDescriber_Disabled(t *testing.T) {
	d := NewDescriber(nil)
	if d.Enabled() {
		t.Error("describer with nil provider should be disabled")
	}

	got, err := d.Suggest(context.Background(), DescribeRequest{Category: "Painting"})
	if err != nil || got != "" {
		t.Errorf("disabled Suggest = %q, %v", got, err)
	}
}

func TestDescriber_Suggest(t *testing.T) {
	d := NewDescriber(&mockProvider{
		response: &DescribeResponse{Description: "  painting by George Stubbs \n"},
	})

	got, err := d.Suggest(context.Background(), DescribeRequest{})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got != "painting by George Stubbs" {
		t.Errorf("suggestion = %q", got)
	}
}

func TestDescriber_ProviderError(t *testing.T) {
	d := NewDescriber(&mockProvider{err: errors.New("quota exceeded")})

	if _, err := d.Suggest(context.Background(), DescribeRequest{}); err == nil {
		t.Error("expected provider error to surface")
	}
}

func TestBuildPrompt_OnlySuppliedFacts(t *testing.T) {
	prompt := BuildPrompt(DescribeRequest{
		Category:   "Painting",
		ArtistName: "George Stubbs",
	})

	if !strings.Contains(prompt, "Category: Painting") || !strings.Contains(prompt, "Artist: George Stubbs") {
		t.Errorf("prompt missing facts:\n%s", prompt)
	}
	if strings.Contains(prompt, "Medium:") || strings.Contains(prompt, "Date:") {
		t.Errorf("prompt lists absent facts:\n%s", prompt)
	}
}

func TestOpenAIProvider_Describe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "painting by George Stubbs"}},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(model.LLMConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	resp, err := p.Describe(context.Background(), DescribeRequest{Category: "Painting", ArtistName: "George Stubbs"})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if resp.Description != "painting by George Stubbs" {
		t.Errorf("description = %q", resp.Description)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("tokens = %d", resp.TokensUsed)
	}
}
