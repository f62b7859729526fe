package dispatch

import (
	"github.com/textwave/ai-api-service/services/providers"
)

// Per-task defaults, mirroring the API surface: deterministic tasks run
// colder than conversational ones.
const (
	defaultMaxTokens     = 100
	defaultCodeMaxTokens = 150

	defaultGenerateTemperature  = 0.7
	defaultTranslateTemperature = 0.3
	defaultSummarizeTemperature = 0.2
	defaultCodeTemperature      = 0.1
	defaultChatTemperature      = 0.7

	defaultCodeLanguage   = "python"
	defaultSourceLanguage = "auto"
)

// GenerateRequest asks for free-form text generation.
type GenerateRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// TranslateRequest asks for a translation of Text into TargetLanguage.
type TranslateRequest struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
	MaxTokens      int
	Temperature    *float64
}

// SummarizeRequest asks for a concise summary of Text. MaxLength bounds the
// summary in output tokens.
type SummarizeRequest struct {
	Text        string
	MaxLength   int
	Temperature *float64
}

// GenerateCodeRequest asks for code in Language implementing Instruction.
type GenerateCodeRequest struct {
	Instruction string
	Language    string
	MaxTokens   int
	Temperature *float64
}

// ChatRequest asks for a single conversational reply.
type ChatRequest struct {
	Message     string
	MaxTokens   int
	Temperature *float64
}

// TaskRequest is the internal tagged union over the task variants. The
// public per-task methods on Service build one, apply defaults, and hand it
// to the dispatch loop.
type TaskRequest struct {
	Kind providers.TaskKind

	// Primary text input; its meaning depends on Kind (prompt, text to
	// translate/summarize, code instruction, chat message).
	Input string

	// Translation fields.
	SourceLanguage string
	TargetLanguage string

	// Code generation field.
	Language string

	// Generation parameters, defaults already applied.
	MaxTokens   int
	Temperature float64
}

// Validate enforces the semantic invariants before any provider is
// contacted: a non-empty input, a positive output bound, and a temperature
// inside [0.0, 2.0].
func (t *TaskRequest) Validate() error {
	if t.Input == "" {
		return NewValidationError(inputField(t.Kind), "must not be empty")
	}
	if t.MaxTokens <= 0 {
		return NewValidationError("max_tokens", "must be greater than zero")
	}
	if t.Temperature < 0.0 || t.Temperature > 2.0 {
		return NewValidationError("temperature", "must be between 0.0 and 2.0")
	}
	if t.Kind == providers.TaskTranslate && t.TargetLanguage == "" {
		return NewValidationError("target_language", "must not be empty")
	}
	return nil
}

func inputField(kind providers.TaskKind) string {
	switch kind {
	case providers.TaskTranslate, providers.TaskSummarize:
		return "text"
	case providers.TaskGenerateCode:
		return "instruction"
	case providers.TaskChat:
		return "message"
	default:
		return "prompt"
	}
}

// UnifiedResult is the single task-agnostic result shape returned to
// callers, whichever provider answered. Metadata a provider does not report
// is omitted, never fabricated.
type UnifiedResult struct {
	// Output is the generated text. Always defined on success, possibly
	// empty.
	Output string `json:"output"`

	// Provider and Model that actually produced the output.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Usage is set only when the provider reports token counts.
	Usage *providers.Usage `json:"usage,omitempty"`

	// LatencyMs of the successful provider call.
	LatencyMs int64 `json:"latency_ms,omitempty"`

	// Success is always true for a returned result; failures surface as
	// errors instead.
	Success bool `json:"success"`
}
