package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
)

const defaultBaseURL = "https://api.openai.com/v1"

var ErrNotConfigured = errors.New("OPENAI_KEY not set")

var _ contract.TextCompleter = (*OpenAIClient)(nil)

type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*OpenAIClient)

// WithBaseURL points the client at a different Responses API host.
func WithBaseURL(url string) Option {
	return func(c *OpenAIClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAIClient) {
		c.httpClient = client
	}
}

func NewOpenAIClient(apiKey, model string, opts ...Option) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type responsesRequest struct {
	Model        string `json:"model"`
	Input        string `json:"input"`
	Instructions string `json:"instructions,omitempty"`
}

type responsesResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// IsConfigured is nil-safe so callers can pass a nil client around.
func (c *OpenAIClient) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

// Complete sends input with instructions to the Responses API and returns the
// first assistant text.
func (c *OpenAIClient) Complete(ctx context.Context, instructions, input string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	jsonBody, err := json.Marshal(responsesRequest{
		Model:        c.model,
		Input:        input,
		Instructions: instructions,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response responsesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("OpenAI error: %s", response.Error.Message)
	}

	for _, output := range response.Output {
		if output.Type != "message" || output.Role != "assistant" {
			continue
		}
		for _, content := range output.Content {
			if content.Type == "output_text" {
				return strings.TrimSpace(content.Text), nil
			}
		}
	}

	return "", errors.New("no text response found in OpenAI output")
}
