// Package huggingface implements the provider client for the Hugging Face
// Inference API. The response shape varies by model family, so parsing
// accepts both the list and object forms the API emits.
package huggingface

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
	defaultBaseURL = "https://api-inference.huggingface.co"
	defaultTimeout = 25 * time.Second
)

// Client calls the Hugging Face Inference API for a single configured model.
type Client struct {
	desc       providers.Descriptor
	httpClient *http.Client
}

// NewClient creates a Hugging Face client from a provider descriptor.
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
	return "huggingface"
}

// Invoke performs a single inference call against the configured model.
func (c *Client) Invoke(ctx context.Context, req *providers.Request) (*providers.RawResult, error) {
	start := time.Now()

	hfReq := &inferenceRequest{
		Inputs:     req.Prompt,
		Parameters: c.parametersFor(req),
	}

	reqBody, err := json.Marshal(hfReq)
	if err != nil {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, 0, "failed to marshal request", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.desc.Timeout)
	defer cancel()

	url := c.desc.BaseURL + "/models/" + c.desc.Model
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, 0, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.desc.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
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

	payload, err := parsePayload(respBody)
	if err != nil {
		return nil, providers.NewProviderError(c.Name(), providers.FailureUnknown, httpResp.StatusCode, "malformed response payload", err)
	}

	return &providers.RawResult{
		Provider: c.Name(),
		Model:    c.desc.Model,
		Payload:  payload,
		Latency:  time.Since(start),
	}, nil
}

// parametersFor builds the generation parameters for the configured model
// family. GPT-style models take max_new_tokens, summarization models take
// max_length/min_length, everything else takes max_length with the
// temperature clamped to the API's supported range.
func (c *Client) parametersFor(req *providers.Request) *inferenceParameters {
	model := strings.ToLower(c.desc.Model)

	switch {
	case strings.Contains(model, "gpt"):
		return &inferenceParameters{MaxNewTokens: req.MaxTokens}
	case strings.Contains(model, "bart"), strings.Contains(model, "pegasus"):
		return &inferenceParameters{MaxLength: req.MaxTokens, MinLength: 10}
	default:
		return &inferenceParameters{
			MaxLength:   req.MaxTokens,
			Temperature: clampTemperature(req.Temperature),
		}
	}
}

// clampTemperature keeps the temperature inside [0.1, 1.0], the range the
// inference API accepts.
func clampTemperature(t float64) float64 {
	if t < 0.1 {
		return 0.1
	}
	if t > 1.0 {
		return 1.0
	}
	return t
}

// parsePayload handles both response forms the inference API emits: a list
// of result objects or a single object.
func parsePayload(body []byte) (*providers.HFGeneration, error) {
	var items []inferenceResult
	if err := json.Unmarshal(body, &items); err == nil {
		if len(items) == 0 {
			return nil, errors.New("empty result list")
		}
		return items[0].toPayload(), nil
	}

	var item inferenceResult
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return item.toPayload(), nil
}

// errorFromStatus builds a sanitized ProviderError from a non-2xx response.
func (c *Client) errorFromStatus(statusCode int, body []byte) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return providers.NewStatusError(c.Name(), statusCode, errResp.Error)
	}
	return providers.NewStatusError(c.Name(), statusCode, http.StatusText(statusCode))
}

// Hugging Face-specific request/response types

type inferenceRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters *inferenceParameters `json:"parameters,omitempty"`
}

type inferenceParameters struct {
	MaxLength    int     `json:"max_length,omitempty"`
	MinLength    int     `json:"min_length,omitempty"`
	MaxNewTokens int     `json:"max_new_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

type inferenceResult struct {
	GeneratedText   string `json:"generated_text"`
	SummaryText     string `json:"summary_text"`
	TranslationText string `json:"translation_text"`
}

func (r inferenceResult) toPayload() *providers.HFGeneration {
	return &providers.HFGeneration{
		GeneratedText:   strings.TrimSpace(r.GeneratedText),
		SummaryText:     strings.TrimSpace(r.SummaryText),
		TranslationText: strings.TrimSpace(r.TranslationText),
	}
}
