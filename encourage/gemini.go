package encourage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini generates text with the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a generator. An empty apiKey is reported as ErrAuthIssue
// so callers can prompt for one.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrAuthIssue)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// GenerateText sends one prompt and returns the concatenated reply.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", translateGeminiError(err)
	}
	return resp.Text(), nil
}

func translateGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && isAuthStatus(apiErr.Code) {
		return fmt.Errorf("%w: %v", ErrAuthIssue, err)
	}
	return err
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
