package analysis

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
)

type geminiClient struct {
	model       string
	baseURL     string
	temperature float32
	maxTokens   int32
	httpClient  *http.Client
}

// NewGeminiClient 使用 Gemini API
func NewGeminiClient(cfg config.LLMConfig) Client {
	timeout, _ := config.ParseDuration(cfg.Timeout)
	return &geminiClient{
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *geminiClient) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return "", &TransportError{Provider: "gemini", Err: err}
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxTokens,
	})
	if err != nil {
		return "", classify("gemini", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &TransportError{Provider: "gemini", Err: ErrEmptyCompletion}
	}
	return text, nil
}
