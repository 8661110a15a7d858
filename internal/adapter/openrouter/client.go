// Package openrouter implements the final fallback llmprovider.Provider
// against an OpenRouter-compatible chat-completions endpoint. Like aipipe,
// it degrades to the shared placeholder instead of failing; unlike aipipe,
// it accepts whatever survives verbatim since there is no further fallback.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pagesmith/pagesmith/internal/port/llmprovider"
)

const providerName = "openrouter"

// Client calls the OpenRouter chat-completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates an OpenRouter provider. An empty apiKey switches the
// provider to placeholder-only mode.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Capabilities() llmprovider.Capabilities {
	return llmprovider.Capabilities{
		Chat:        true,
		Placeholder: true,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate produces content for the prompt, degrading to the placeholder on
// any upstream failure.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		slog.Warn("openrouter key not configured, using placeholder response")
		return llmprovider.PlaceholderDocument(prompt), nil
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("openrouter marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("openrouter call failed", "error", err)
		return llmprovider.PlaceholderDocument(prompt), nil
	}
	defer func() { _ = resp.Body.Close() }()

	raw := new(bytes.Buffer)
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		slog.Error("openrouter read failed", "error", err)
		return llmprovider.PlaceholderDocument(prompt), nil
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("openrouter API error", "status", resp.StatusCode)
		return llmprovider.PlaceholderDocument(prompt), nil
	}

	return extractContent(raw.Bytes()), nil
}

// extractContent pulls the assistant message out of a chat-completions
// response. Nested shapes vary by upstream model, so it tries the content
// field, then a text field, then serializes the whole response.
func extractContent(body []byte) string {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
				Text    string `json:"text"`
			} `json:"message"`
		} `json:"choices"`
		Response string `json:"response"`
		Output   string `json:"output"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}

	if len(parsed.Choices) > 0 {
		msg := parsed.Choices[0].Message
		switch {
		case msg.Content != "":
			return msg.Content
		case msg.Text != "":
			return msg.Text
		}
		return string(body)
	}

	switch {
	case parsed.Response != "":
		return parsed.Response
	case parsed.Output != "":
		return parsed.Output
	}
	return string(body)
}

// Accept always accepts: any 200-equivalent response is final content.
func (c *Client) Accept(string) error { return nil }
