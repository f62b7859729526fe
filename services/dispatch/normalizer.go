package dispatch

import (
	"github.com/textwave/ai-api-service/services/providers"
)

// Normalize maps a raw provider result into the unified result shape. It is
// a pure function: the same raw result always yields the same UnifiedResult.
// It is only ever invoked on a successful raw result, so it has no error
// path. Adding a provider means adding one case here, not touching dispatch
// logic.
func Normalize(raw *providers.RawResult) *UnifiedResult {
	result := &UnifiedResult{
		Provider:  raw.Provider,
		Model:     raw.Model,
		LatencyMs: raw.Latency.Milliseconds(),
		Success:   true,
	}

	switch payload := raw.Payload.(type) {
	case *providers.GroqCompletion:
		result.Output = payload.Content
		if payload.Usage != nil {
			usage := *payload.Usage
			result.Usage = &usage
		}

	case *providers.HFGeneration:
		// The populated field depends on the model family; precedence
		// matches the inference API's own field semantics.
		switch {
		case payload.GeneratedText != "":
			result.Output = payload.GeneratedText
		case payload.SummaryText != "":
			result.Output = payload.SummaryText
		case payload.TranslationText != "":
			result.Output = payload.TranslationText
		}
		// The inference API reports no token usage; none is fabricated.
	}

	return result
}
