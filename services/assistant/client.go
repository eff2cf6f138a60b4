// File: services/assistant/client.go
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn of the conversation. Content is either a plain string
// or a []ContentBlock once tool traffic is involved.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentBlock is one block of a provider response or tool-result message.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`

	// tool_use blocks.
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result blocks.
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Tool describes one callable function offered to the provider.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	Tools     []Tool    `json:"tools,omitempty"`
}

// MessagesResponse is the provider's answer; StopReason "tool_use" signals
// pending tool invocations.
type MessagesResponse struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// StopReasonToolUse is the stop_reason value signalling tool invocations.
const StopReasonToolUse = "tool_use"

// ProviderError reports a failed provider call. Full detail is for logs only;
// guests get a generic message.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("assistant: provider returned status %d: %s", e.Status, e.Body)
}

// Provider is the chat-completion dependency of the tool-use loop.
type Provider interface {
	Messages(ctx context.Context, system string, msgs []Message, tools []Tool) (*MessagesResponse, error)
}

// Client calls the Anthropic Messages API.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Messages sends the history plus toolset and returns the provider response.
func (c *Client) Messages(ctx context.Context, system string, msgs []Message, tools []Tool) (*MessagesResponse, error) {
	if c.apiKey == "" {
		return nil, &ProviderError{Body: "AI chat not configured"}
	}

	payload, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: 2048,
		System:    system,
		Messages:  msgs,
		Tools:     tools,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("assistant: create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Status: resp.StatusCode, Body: string(raw)}
	}

	var out MessagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("assistant: decode response: %w", err)
	}
	return &out, nil
}
