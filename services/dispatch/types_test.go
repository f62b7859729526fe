package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textwave/ai-api-service/services/providers"
)

func validTask(kind providers.TaskKind) TaskRequest {
	task := TaskRequest{
		Kind:        kind,
		Input:       "some input",
		MaxTokens:   100,
		Temperature: 0.7,
	}
	if kind == providers.TaskTranslate {
		task.TargetLanguage = "spanish"
	}
	return task
}

func TestTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TaskRequest)
		wantField string
	}{
		{
			name:   "valid request passes",
			mutate: func(t *TaskRequest) {},
		},
		{
			name:      "empty input",
			mutate:    func(t *TaskRequest) { t.Input = "" },
			wantField: "prompt",
		},
		{
			name:      "zero max tokens",
			mutate:    func(t *TaskRequest) { t.MaxTokens = 0 },
			wantField: "max_tokens",
		},
		{
			name:      "negative max tokens",
			mutate:    func(t *TaskRequest) { t.MaxTokens = -5 },
			wantField: "max_tokens",
		},
		{
			name:      "temperature below range",
			mutate:    func(t *TaskRequest) { t.Temperature = -0.1 },
			wantField: "temperature",
		},
		{
			name:      "temperature above range",
			mutate:    func(t *TaskRequest) { t.Temperature = 2.1 },
			wantField: "temperature",
		},
		{
			name:   "temperature boundaries are inclusive",
			mutate: func(t *TaskRequest) { t.Temperature = 2.0 },
		},
		{
			name:   "zero temperature is valid",
			mutate: func(t *TaskRequest) { t.Temperature = 0.0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask(providers.TaskGenerate)
			tt.mutate(&task)

			err := task.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestTaskRequest_ValidateTranslateRequiresTarget(t *testing.T) {
	task := validTask(providers.TaskTranslate)
	task.TargetLanguage = ""

	var verr *ValidationError
	require.ErrorAs(t, task.Validate(), &verr)
	assert.Equal(t, "target_language", verr.Field)
}

func TestTaskRequest_ValidateFieldNamesFollowTask(t *testing.T) {
	tests := []struct {
		kind providers.TaskKind
		want string
	}{
		{kind: providers.TaskGenerate, want: "prompt"},
		{kind: providers.TaskTranslate, want: "text"},
		{kind: providers.TaskSummarize, want: "text"},
		{kind: providers.TaskGenerateCode, want: "instruction"},
		{kind: providers.TaskChat, want: "message"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			task := validTask(tt.kind)
			task.Input = ""

			var verr *ValidationError
			require.ErrorAs(t, task.Validate(), &verr)
			assert.Equal(t, tt.want, verr.Field)
		})
	}
}

func TestAllProvidersFailed_Error(t *testing.T) {
	err := &AllProvidersFailed{Attempts: []*providers.ProviderError{
		providers.NewStatusError("groq", 429, "rate limit exceeded"),
		providers.NewStatusError("huggingface", 503, "model loading"),
	}}

	msg := err.Error()
	assert.Contains(t, msg, "all providers failed")
	assert.Contains(t, msg, "groq")
	assert.Contains(t, msg, "huggingface")
	assert.True(t, IsAllProvidersFailed(err))
	assert.False(t, IsValidation(err))
}

func TestValidationErrorHelpers(t *testing.T) {
	err := NewValidationError("temperature", "must be between 0.0 and 2.0")

	assert.True(t, IsValidation(err))
	assert.False(t, IsAllProvidersFailed(err))
	assert.Contains(t, err.Error(), "temperature")
}
