package providers

import (
	"context"
	"time"
)

// TaskKind identifies the text task a request belongs to. Providers use it
// to shape their wire request, and the normalizer uses it to pick the right
// response field.
type TaskKind string

const (
	TaskGenerate     TaskKind = "generate"
	TaskTranslate    TaskKind = "translate"
	TaskSummarize    TaskKind = "summarize"
	TaskGenerateCode TaskKind = "generate-code"
	TaskChat         TaskKind = "chat"
)

// Client wraps a single hosted inference endpoint. Implementations translate
// a Request into exactly one outbound call and its raw response into a
// RawResult. Retry and fallback policy live in the dispatcher, never here.
type Client interface {
	// Name returns the provider name (e.g., "groq", "huggingface").
	Name() string

	// Invoke performs one inference call. On failure it returns a
	// *ProviderError tagged with a FailureClass, except when the caller's
	// context is already done, in which case the context error is returned
	// unwrapped so cancellation is never mistaken for a provider failure.
	// The per-call timeout is enforced by the client itself.
	Invoke(ctx context.Context, req *Request) (*RawResult, error)
}

// Request is the provider-agnostic invocation payload built by the
// dispatcher. The prompt is fully templated by the time it gets here.
type Request struct {
	// Kind of task the prompt was built for.
	Kind TaskKind

	// Prompt is the complete user prompt.
	Prompt string

	// System is an optional system instruction. Providers that have no
	// system slot on the wire ignore it.
	System string

	// MaxTokens bounds the output length. Always > 0.
	MaxTokens int

	// Temperature in [0.0, 2.0]. Providers clamp to their own supported
	// range on the wire.
	Temperature float64
}

// RawResult is a provider response before normalization, annotated with the
// provider and model that actually produced it. Exactly one payload variant
// is set; the set of variants is closed and the normalizer switches over it.
type RawResult struct {
	// Provider that produced the result.
	Provider string

	// Model identifier actually used.
	Model string

	// Payload holds the provider-specific response shape.
	Payload RawPayload

	// Latency of the outbound call.
	Latency time.Duration
}

// RawPayload is the closed set of provider response shapes. Adding a
// provider means adding a variant here and a case in the normalizer,
// not touching dispatch logic.
type RawPayload interface {
	rawPayload()
}

// GroqCompletion is the parsed body of a Groq chat-completions response.
type GroqCompletion struct {
	Content      string
	FinishReason string
	Usage        *Usage
}

func (*GroqCompletion) rawPayload() {}

// HFGeneration is the parsed body of a Hugging Face Inference API response.
// Which text field is populated depends on the model family; at most one is
// non-empty. The inference API reports no token usage.
type HFGeneration struct {
	GeneratedText   string
	SummaryText     string
	TranslationText string
}

func (*HFGeneration) rawPayload() {}

// Usage holds token usage statistics when the provider reports them.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
