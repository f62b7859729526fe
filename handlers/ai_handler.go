package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/textwave/ai-api-service/services/dispatch"
	"github.com/textwave/ai-api-service/utils"
)

// Dispatcher defines the dispatch operations the AI handlers depend on.
type Dispatcher interface {
	Generate(ctx context.Context, req dispatch.GenerateRequest) (*dispatch.UnifiedResult, error)
	Translate(ctx context.Context, req dispatch.TranslateRequest) (*dispatch.UnifiedResult, error)
	Summarize(ctx context.Context, req dispatch.SummarizeRequest) (*dispatch.UnifiedResult, error)
	GenerateCode(ctx context.Context, req dispatch.GenerateCodeRequest) (*dispatch.UnifiedResult, error)
	Chat(ctx context.Context, req dispatch.ChatRequest) (*dispatch.UnifiedResult, error)
}

// AIHandler handles the AI task endpoints. Handlers are thin: decode,
// shape-validate, dispatch, render. Semantic validation (ranges, required
// combinations) is the dispatcher's job.
type AIHandler struct {
	service Dispatcher
	logger  *zap.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(service Dispatcher, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		service: service,
		logger:  logger,
	}
}

// TextGenerationRequest is the body of POST /ai/generate
type TextGenerationRequest struct {
	Prompt      string   `json:"prompt" validate:"required"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// TextGenerationResponse is the response of POST /ai/generate
type TextGenerationResponse struct {
	GeneratedText string `json:"generated_text"`
	Model         string `json:"model"`
	Provider      string `json:"provider"`
	LatencyMs     int64  `json:"latency_ms,omitempty"`
	Success       bool   `json:"success"`
}

// HandleGenerate handles POST /ai/generate
func (h *AIHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req TextGenerationRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Generate(r.Context(), dispatch.GenerateRequest{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		HandleDispatchError(w, r, err, h.logger)
		return
	}

	h.write(w, r, TextGenerationResponse{
		GeneratedText: result.Output,
		Model:         result.Model,
		Provider:      result.Provider,
		LatencyMs:     result.LatencyMs,
		Success:       true,
	})
}

// TranslationRequest is the body of POST /ai/translate
type TranslationRequest struct {
	Text           string   `json:"text" validate:"required"`
	TargetLanguage string   `json:"target_language" validate:"required"`
	SourceLanguage string   `json:"source_language,omitempty"`
	MaxTokens      int      `json:"max_tokens,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
}

// TranslationResponse is the response of POST /ai/translate
type TranslationResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Model          string `json:"model"`
	Provider       string `json:"provider"`
	Success        bool   `json:"success"`
}

// HandleTranslate handles POST /ai/translate
func (h *AIHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslationRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Translate(r.Context(), dispatch.TranslateRequest{
		Text:           req.Text,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		MaxTokens:      req.MaxTokens,
		Temperature:    req.Temperature,
	})
	if err != nil {
		HandleDispatchError(w, r, err, h.logger)
		return
	}

	source := req.SourceLanguage
	if source == "" {
		source = "auto"
	}
	h.write(w, r, TranslationResponse{
		OriginalText:   req.Text,
		TranslatedText: result.Output,
		SourceLanguage: source,
		TargetLanguage: req.TargetLanguage,
		Model:          result.Model,
		Provider:       result.Provider,
		Success:        true,
	})
}

// SummarizationRequest is the body of POST /ai/summarize
type SummarizationRequest struct {
	Text        string   `json:"text" validate:"required"`
	MaxLength   int      `json:"max_length,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// SummarizationResponse is the response of POST /ai/summarize
type SummarizationResponse struct {
	OriginalLength int    `json:"original_length"`
	Summary        string `json:"summary"`
	SummaryLength  int    `json:"summary_length"`
	Model          string `json:"model"`
	Provider       string `json:"provider"`
	Success        bool   `json:"success"`
}

// HandleSummarize handles POST /ai/summarize
func (h *AIHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizationRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Summarize(r.Context(), dispatch.SummarizeRequest{
		Text:        req.Text,
		MaxLength:   req.MaxLength,
		Temperature: req.Temperature,
	})
	if err != nil {
		HandleDispatchError(w, r, err, h.logger)
		return
	}

	h.write(w, r, SummarizationResponse{
		OriginalLength: len(req.Text),
		Summary:        result.Output,
		SummaryLength:  len(result.Output),
		Model:          result.Model,
		Provider:       result.Provider,
		Success:        true,
	})
}

// CodeGenerationRequest is the body of POST /ai/generate-code
type CodeGenerationRequest struct {
	Instruction string   `json:"instruction" validate:"required"`
	Language    string   `json:"language,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// CodeGenerationResponse is the response of POST /ai/generate-code
type CodeGenerationResponse struct {
	Instruction string `json:"instruction"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Model       string `json:"model"`
	Provider    string `json:"provider"`
	Success     bool   `json:"success"`
}

// HandleGenerateCode handles POST /ai/generate-code
func (h *AIHandler) HandleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req CodeGenerationRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.GenerateCode(r.Context(), dispatch.GenerateCodeRequest{
		Instruction: req.Instruction,
		Language:    req.Language,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		HandleDispatchError(w, r, err, h.logger)
		return
	}

	language := req.Language
	if language == "" {
		language = "python"
	}
	h.write(w, r, CodeGenerationResponse{
		Instruction: req.Instruction,
		Language:    language,
		Code:        result.Output,
		Model:       result.Model,
		Provider:    result.Provider,
		Success:     true,
	})
}

// ChatRequest is the body of POST /ai/chat
type ChatRequest struct {
	Message     string   `json:"message" validate:"required"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatResponse is the response of POST /ai/chat
type ChatResponse struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Model       string `json:"model"`
	Provider    string `json:"provider"`
	Success     bool   `json:"success"`
}

// HandleChat handles POST /ai/chat
func (h *AIHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Chat(r.Context(), dispatch.ChatRequest{
		Message:     req.Message,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		HandleDispatchError(w, r, err, h.logger)
		return
	}

	h.write(w, r, ChatResponse{
		UserMessage: req.Message,
		AIResponse:  result.Output,
		Model:       result.Model,
		Provider:    result.Provider,
		Success:     true,
	})
}

// decode parses and shape-validates a request body, writing a 400 on
// failure. Returns false when the request was rejected.
func (h *AIHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	requestID := middleware.GetReqID(r.Context())

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return false
	}

	return true
}

func (h *AIHandler) write(w http.ResponseWriter, r *http.Request, data interface{}) {
	if err := utils.WriteJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
}
