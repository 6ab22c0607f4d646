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
)

// ChatCompletions talks to any OpenAI-compatible chat completions
// endpoint. OpenAI and xAI (Grok) share this shape.
type ChatCompletions struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*ChatCompletions)(nil)

func NewChatCompletions(name, apiKey, model, baseURL string, client *http.Client) *ChatCompletions {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatCompletions{name: name, apiKey: apiKey, model: model, baseURL: baseURL, client: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatCompletions) Name() string { return c.name }

func (c *ChatCompletions) Complete(ctx context.Context, req Request) Result {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Question},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return failure(FailureMalformed, fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return failure(FailureTransport, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return failure(FailureTransport, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return failure(FailureTransport, fmt.Errorf("%s API error %d: %s", c.name, resp.StatusCode, string(raw)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(FailureMalformed, fmt.Errorf("decode response: %w", err))
	}
	if len(out.Choices) == 0 {
		return failure(FailureMalformed, errors.New("no choices in response"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return failure(FailureMalformed, errors.New("empty completion"))
	}
	return success(text)
}
