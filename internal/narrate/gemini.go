// ABOUTME: Gemini collaborator built on the Google GenAI SDK.
package narrate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures a Gemini collaborator. BaseURL is only set in tests
// or behind a proxy.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini calls models.generateContent.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the SDK client. An empty key is rejected up front.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Model is the configured model id.
func (g *Gemini) Model() string { return g.model }

// Complete generates a narration for the payload.
func (g *Gemini) Complete(ctx context.Context, payload string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(UserPrompt(payload)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		MaxOutputTokens:   MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
