package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ideascope/internal/embedding"
)

// Client is a minimal REST client for the Mistral embeddings and chat
// completion endpoints.
type Client struct {
	baseURL     string
	apiKey      string
	chatModel   string
	embedModel  string
	temperature float64
	dimension   int
	client      *http.Client
}

// Config configures the Mistral client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	ChatModel   string
	EmbedModel  string
	Dimension   int
	Temperature float64
	Timeout     time.Duration
}

// NewClient creates a Mistral client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "MISTRAL_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "mistral-large-latest"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "mistral-embed"
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 1024
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      key,
		chatModel:   cfg.ChatModel,
		embedModel:  cfg.EmbedModel,
		temperature: cfg.Temperature,
		dimension:   cfg.Dimension,
		client:      &http.Client{Timeout: t},
	}, nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

// EmbedBatch returns one embedding vector per input text. Throttling-class
// responses (429 and 5xx) are reported as retryable embedding errors;
// retrying is the caller's concern.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body := map[string]any{
		"model": c.embedModel,
		"input": texts,
	}
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/embeddings", body, &out); err != nil {
		return nil, err
	}
	if len(out.Data) != len(texts) {
		return nil, &embedding.Error{Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(out.Data))}
	}
	vectors := make([][]float64, len(out.Data))
	for i, item := range out.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// Complete sends a single-turn, low-temperature chat completion constrained
// to JSON output and returns the raw text of the first choice.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := map[string]any{
		"model":           c.chatModel,
		"temperature":     c.temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/chat/completions", body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("mistral chat returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return &embedding.Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &embedding.Error{
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("mistral POST %s failed: %s", url, strings.TrimSpace(string(msg))),
			Throttled: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
