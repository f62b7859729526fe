// Package groq implements the provider client for the Groq API, which
// speaks the OpenAI chat-completions wire format.
package groq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/textwave/ai-api-service/services/providers"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultTimeout = 30 * time.Second

	systemPrompt = "You are a helpful AI assistant. Provide clear, concise, and helpful responses."
)

// Client calls the Groq chat-completions endpoint. It performs exactly one
// outbound call per Invoke; fallback and retries belong to the dispatcher.
type Client struct {
	desc       providers.Descriptor
	httpClient *http.Client
}

// NewClient creates a Groq client from a provider descriptor.
func NewClient(desc providers.Descriptor) *Client {
	if desc.BaseURL == "" {
		desc.BaseURL = defaultBaseURL
	}
	if desc.Timeout == 0 {
		desc.Timeout = defaultTimeout
	}

	return &Client{
		desc:       desc,
		httpClient: &http.Client{},
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "groq"
}

// Invoke performs a single chat-completion call against Groq.
func (c *Client) Invoke(ctx context.Context, req *providers.Request) (*providers.RawResult, error) {
	start := time.Now()

	system := req.System
	if system == "" {
		system = systemPrompt
	}

	groqReq := &chatRequest{
		Model: c.desc.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	reqBody, err := json.Marshal(groqReq)
	if err != nil {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, 0, "failed to marshal request", err)
	}

	// The per-call timeout is enforced here, not by the dispatcher.
	callCtx, cancel := context.WithTimeout(ctx, c.desc.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.desc.BaseURL+"/chat/completions", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, 0, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.desc.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Caller cancellation propagates as-is so the dispatcher does not
		// mistake it for a provider failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, providers.NewProviderError(c.Name(), providers.FailureTransient, 0, "request timed out", err)
		}
		return nil, providers.NewProviderError(c.Name(), providers.FailureTransient, 0, "request failed", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, providers.NewProviderError(c.Name(), providers.FailureTransient, httpResp.StatusCode, "failed to read response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.errorFromStatus(httpResp.StatusCode, respBody)
	}

	var groqResp chatResponse
	if err := json.Unmarshal(respBody, &groqResp); err != nil {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, httpResp.StatusCode, "malformed response payload", err)
	}
	if len(groqResp.Choices) == 0 {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, httpResp.StatusCode, "response contained no choices", nil)
	}

	model := groqResp.Model
	if model == "" {
		model = c.desc.Model
	}

	return &providers.RawResult{
		Provider: c.Name(),
		Model:    model,
		Payload: &providers.GroqCompletion{
			Content:      groqResp.Choices[0].Message.Content,
			FinishReason: groqResp.Choices[0].FinishReason,
			Usage: &providers.Usage{
				PromptTokens:     groqResp.Usage.PromptTokens,
				CompletionTokens: groqResp.Usage.CompletionTokens,
				TotalTokens:      groqResp.Usage.TotalTokens,
			},
		},
		Latency: time.Since(start),
	}, nil
}

// errorFromStatus builds a sanitized ProviderError from a non-2xx response.
// The raw body is parsed for the provider's error message but never carried
// through verbatim when it does not decode.
func (c *Client) errorFromStatus(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return providers.NewStatusError(c.Name(), statusCode, errResp.Error.Message)
	}
	return providers.NewStatusError(c.Name(), statusCode, http.StatusText(statusCode))
}

// Groq-specific request/response types (OpenAI chat-completions format)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
