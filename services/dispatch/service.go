// Package dispatch implements the provider fallback-dispatch layer: it
// validates task requests, attempts providers in chain order until one
// succeeds, and normalizes heterogeneous provider responses into one
// unified result shape.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/textwave/ai-api-service/internal/observability"
	"github.com/textwave/ai-api-service/services/providers"
)

// Service dispatches task requests across the provider chain. It has no
// per-call state: the chain is read-only after startup, so concurrent
// dispatches need no locking.
type Service struct {
	registry *providers.Registry
	logger   *zap.Logger
}

// NewService creates a dispatcher over an already-built provider chain.
func NewService(registry *providers.Registry, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

// Generate dispatches a free-form text generation request.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*UnifiedResult, error) {
	task := TaskRequest{
		Kind:        providers.TaskGenerate,
		Input:       req.Prompt,
		MaxTokens:   defaulted(req.MaxTokens, defaultMaxTokens),
		Temperature: temperatureOrDefault(req.Temperature, defaultGenerateTemperature),
	}
	return s.dispatch(ctx, task)
}

// Translate dispatches a translation request.
func (s *Service) Translate(ctx context.Context, req TranslateRequest) (*UnifiedResult, error) {
	source := req.SourceLanguage
	if source == "" {
		source = defaultSourceLanguage
	}
	task := TaskRequest{
		Kind:           providers.TaskTranslate,
		Input:          req.Text,
		SourceLanguage: source,
		TargetLanguage: req.TargetLanguage,
		MaxTokens:      defaulted(req.MaxTokens, defaultMaxTokens),
		Temperature:    temperatureOrDefault(req.Temperature, defaultTranslateTemperature),
	}
	return s.dispatch(ctx, task)
}

// Summarize dispatches a summarization request.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (*UnifiedResult, error) {
	task := TaskRequest{
		Kind:        providers.TaskSummarize,
		Input:       req.Text,
		MaxTokens:   defaulted(req.MaxLength, defaultMaxTokens),
		Temperature: temperatureOrDefault(req.Temperature, defaultSummarizeTemperature),
	}
	return s.dispatch(ctx, task)
}

// GenerateCode dispatches a code generation request.
func (s *Service) GenerateCode(ctx context.Context, req GenerateCodeRequest) (*UnifiedResult, error) {
	language := req.Language
	if language == "" {
		language = defaultCodeLanguage
	}
	task := TaskRequest{
		Kind:        providers.TaskGenerateCode,
		Input:       req.Instruction,
		Language:    language,
		MaxTokens:   defaulted(req.MaxTokens, defaultCodeMaxTokens),
		Temperature: temperatureOrDefault(req.Temperature, defaultCodeTemperature),
	}
	return s.dispatch(ctx, task)
}

// Chat dispatches a conversational request.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*UnifiedResult, error) {
	task := TaskRequest{
		Kind:        providers.TaskChat,
		Input:       req.Message,
		MaxTokens:   defaulted(req.MaxTokens, defaultMaxTokens),
		Temperature: temperatureOrDefault(req.Temperature, defaultChatTemperature),
	}
	return s.dispatch(ctx, task)
}

// dispatch runs the fallback loop: validate once, then attempt providers
// strictly in chain order until one succeeds or the chain is exhausted.
// Attempts are sequential, never parallel; fallback is triggered only by
// observing the prior attempt fail.
func (s *Service) dispatch(ctx context.Context, task TaskRequest) (*UnifiedResult, error) {
	start := time.Now()
	dispatchID := uuid.New().String()

	if err := task.Validate(); err != nil {
		observability.DispatchTotal.WithLabelValues(string(task.Kind), "validation_error").Inc()
		s.logger.Warn("task request rejected",
			zap.String("dispatch_id", dispatchID),
			zap.String("task", string(task.Kind)),
			zap.Error(err))
		return nil, err
	}

	providerReq := buildProviderRequest(task)

	s.logger.Debug("starting dispatch",
		zap.String("dispatch_id", dispatchID),
		zap.String("task", string(task.Kind)),
		zap.Int("max_tokens", providerReq.MaxTokens),
		zap.Float64("temperature", providerReq.Temperature))

	var attempts []*providers.ProviderError

	for _, entry := range s.registry.Chain() {
		if !entry.Descriptor.Enabled {
			continue
		}

		// Caller gave up: stop the chain, never treat it as a provider
		// failure.
		if err := ctx.Err(); err != nil {
			observability.DispatchTotal.WithLabelValues(string(task.Kind), contextOutcome(err)).Inc()
			return nil, mapContextError(err)
		}

		name := entry.Descriptor.Name
		raw, err := entry.Client.Invoke(ctx, providerReq)
		if err == nil {
			s.registry.MarkReachable(name, true)
			recordSuccess(task.Kind, raw)

			result := Normalize(raw)
			s.logger.Info("dispatch succeeded",
				zap.String("dispatch_id", dispatchID),
				zap.String("task", string(task.Kind)),
				zap.String("provider", result.Provider),
				zap.String("model", result.Model),
				zap.Int64("latency_ms", result.LatencyMs),
				zap.Int("attempt", len(attempts)+1))
			return result, nil
		}

		var perr *providers.ProviderError
		if !errors.As(err, &perr) {
			// Bare context errors come from the caller, not the provider.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				observability.DispatchTotal.WithLabelValues(string(task.Kind), contextOutcome(err)).Inc()
				return nil, mapContextError(err)
			}
			perr = providers.NewProviderError(name, providers.FailureUnknown, 0, "provider call failed", err)
		}

		// Every failure class falls through to the next provider: a
		// permanent error (e.g. bad credentials) is provider-specific,
		// not request-specific.
		attempts = append(attempts, perr)
		s.registry.MarkReachable(name, false)
		observability.ProviderAttemptsTotal.WithLabelValues(name, string(perr.Class)).Inc()
		s.logger.Warn("provider attempt failed",
			zap.String("dispatch_id", dispatchID),
			zap.String("task", string(task.Kind)),
			zap.String("provider", name),
			zap.String("failure_class", string(perr.Class)),
			zap.Error(perr))
	}

	observability.DispatchTotal.WithLabelValues(string(task.Kind), "all_providers_failed").Inc()
	s.logger.Error("provider chain exhausted",
		zap.String("dispatch_id", dispatchID),
		zap.String("task", string(task.Kind)),
		zap.Int("attempts", len(attempts)),
		zap.Duration("elapsed", time.Since(start)))
	return nil, &AllProvidersFailed{Attempts: attempts}
}

// buildProviderRequest templates the task into a provider-agnostic prompt.
func buildProviderRequest(task TaskRequest) *providers.Request {
	req := &providers.Request{
		Kind:        task.Kind,
		MaxTokens:   task.MaxTokens,
		Temperature: task.Temperature,
	}

	switch task.Kind {
	case providers.TaskTranslate:
		req.Prompt = fmt.Sprintf("Translate the following text from %s to %s: %s",
			task.SourceLanguage, task.TargetLanguage, task.Input)
	case providers.TaskSummarize:
		req.Prompt = fmt.Sprintf("Please summarize the following text concisely: %s", task.Input)
	case providers.TaskGenerateCode:
		req.Prompt = fmt.Sprintf("Write %s code that: %s. Provide only the code with comments.",
			task.Language, task.Input)
	default:
		req.Prompt = task.Input
	}

	return req
}

func recordSuccess(kind providers.TaskKind, raw *providers.RawResult) {
	observability.DispatchTotal.WithLabelValues(string(kind), "success").Inc()
	observability.ProviderAttemptsTotal.WithLabelValues(raw.Provider, "success").Inc()
	observability.DispatchLatency.WithLabelValues(string(kind), raw.Provider).Observe(raw.Latency.Seconds())

	if completion, ok := raw.Payload.(*providers.GroqCompletion); ok && completion.Usage != nil {
		observability.TokenUsageTotal.WithLabelValues(raw.Provider, "input").Add(float64(completion.Usage.PromptTokens))
		observability.TokenUsageTotal.WithLabelValues(raw.Provider, "output").Add(float64(completion.Usage.CompletionTokens))
	}
}

func mapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimedOut
	}
	return ErrCancelled
}

func contextOutcome(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "cancelled"
}

func defaulted(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func temperatureOrDefault(t *float64, fallback float64) float64 {
	if t == nil {
		return fallback
	}
	return *t
}
