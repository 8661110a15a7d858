// Package aipipe implements the first fallback llmprovider.Provider against
// the aipipe.org responses proxy. It never fails: without a token, or when
// the upstream call goes wrong, Generate degrades to the shared placeholder
// document so the chain can still make progress.
package aipipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pagesmith/pagesmith/internal/port/llmprovider"
)

const providerName = "aipipe"

// acceptWindow is how far into the content the placeholder marker is sought.
const acceptWindow = 200

// Client calls the aipipe.org responses API.
type Client struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

// NewClient creates an aipipe provider. An empty token switches the provider
// to placeholder-only mode.
func NewClient(baseURL, token, model string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Capabilities() llmprovider.Capabilities {
	return llmprovider.Capabilities{
		Chat:        false,
		Placeholder: true,
	}
}

type generateRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type generateResponse struct {
	Response string `json:"response"`
	Output   string `json:"output"`
}

// Generate produces content for the prompt. It returns an error only when
// the context is done; every other failure degrades to the placeholder.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.token == "" {
		slog.Warn("aipipe token not configured, using placeholder response")
		return llmprovider.PlaceholderDocument(prompt), nil
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Input: prompt})
	if err != nil {
		return "", fmt.Errorf("aipipe marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/openrouter/v1/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("aipipe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("aipipe call failed", "error", err)
		return llmprovider.PlaceholderDocument(prompt), nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Error("aipipe API error", "status", resp.StatusCode)
		return llmprovider.PlaceholderDocument(prompt), nil
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Error("aipipe response parse failed", "error", err)
		return llmprovider.PlaceholderDocument(prompt), nil
	}

	switch {
	case parsed.Response != "":
		return parsed.Response, nil
	case parsed.Output != "":
		return parsed.Output, nil
	default:
		return llmprovider.PlaceholderDocument(prompt), nil
	}
}

// Accept rejects responses that look like an error envelope rather than
// page content: empty output, JSON-looking output, or the provider's own
// placeholder document (identified by the marker near the top).
func (c *Client) Accept(content string) error {
	if content == "" {
		return errors.New("empty response")
	}
	if strings.HasPrefix(content, "{") {
		return errors.New("response looks like a JSON error envelope")
	}
	head := content
	if len(head) > acceptWindow {
		head = head[:acceptWindow]
	}
	if strings.Contains(head, llmprovider.PlaceholderMarker) {
		return errors.New("response is the built-in placeholder")
	}
	return nil
}
