package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/textwave/ai-api-service/services/providers"
)

func testDescriptor(baseURL, model string) providers.Descriptor {
	return providers.Descriptor{
		Name:    "huggingface",
		BaseURL: baseURL,
		Model:   model,
		APIKey:  "hf-test-key",
		Timeout: 5 * time.Second,
		Enabled: true,
	}
}

func TestClient_Invoke_ListResponse(t *testing.T) {
	var gotPath string
	var gotBody inferenceRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`[{"generated_text":"  The stars are far away.  "}]`))
	}))
	defer server.Close()

	client := NewClient(testDescriptor(server.URL, "microsoft/DialoGPT-medium"))
	raw, err := client.Invoke(context.Background(), &providers.Request{
		Kind:        providers.TaskGenerate,
		Prompt:      "Tell me about stars",
		MaxTokens:   100,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if gotPath != "/models/microsoft/DialoGPT-medium" {
		t.Errorf("path = %s, want /models/microsoft/DialoGPT-medium", gotPath)
	}
	if gotBody.Inputs != "Tell me about stars" {
		t.Errorf("wire inputs = %q", gotBody.Inputs)
	}

	payload, ok := raw.Payload.(*providers.HFGeneration)
	if !ok {
		t.Fatalf("Payload type = %T, want *providers.HFGeneration", raw.Payload)
	}
	if payload.GeneratedText != "The stars are far away." {
		t.Errorf("GeneratedText = %q, want trimmed text", payload.GeneratedText)
	}
	if raw.Provider != "huggingface" {
		t.Errorf("Provider = %s, want huggingface", raw.Provider)
	}
}

func TestClient_Invoke_ObjectResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary_text":"Short version."}`))
	}))
	defer server.Close()

	client := NewClient(testDescriptor(server.URL, "facebook/bart-large-cnn"))
	raw, err := client.Invoke(context.Background(), &providers.Request{
		Kind: providers.TaskSummarize, Prompt: "long text", MaxTokens: 100, Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	payload := raw.Payload.(*providers.HFGeneration)
	if payload.SummaryText != "Short version." {
		t.Errorf("SummaryText = %q", payload.SummaryText)
	}
}

func TestClient_Invoke_EmptyListIsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testDescriptor(server.URL, "gpt2"))
	_, err := client.Invoke(context.Background(), &providers.Request{
		Kind: providers.TaskGenerate, Prompt: "hi", MaxTokens: 10, Temperature: 0.7,
	})

	var perr *providers.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *providers.ProviderError", err)
	}
	if perr.Class != providers.FailureUnknown {
		t.Errorf("Class = %s, want %s", perr.Class, providers.FailureUnknown)
	}
}

func TestClient_Invoke_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantClass providers.FailureClass
		wantMsg   string
	}{
		{
			name:      "model loading",
			status:    503,
			body:      `{"error":"Model gpt2 is currently loading","estimated_time":20}`,
			wantClass: providers.FailureTransient,
			wantMsg:   "Model gpt2 is currently loading",
		},
		{
			name:      "invalid token",
			status:    401,
			body:      `{"error":"Authorization header is correct, but the token seems invalid"}`,
			wantClass: providers.FailurePermanent,
			wantMsg:   "Authorization header is correct, but the token seems invalid",
		},
		{
			name:      "unparseable error body",
			status:    502,
			body:      `<html>bad gateway</html>`,
			wantClass: providers.FailureTransient,
			wantMsg:   http.StatusText(http.StatusBadGateway),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testDescriptor(server.URL, "gpt2"))
			_, err := client.Invoke(context.Background(), &providers.Request{
				Kind: providers.TaskGenerate, Prompt: "hi", MaxTokens: 10, Temperature: 0.7,
			})

			var perr *providers.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *providers.ProviderError", err)
			}
			if perr.Class != tt.wantClass {
				t.Errorf("Class = %s, want %s", perr.Class, tt.wantClass)
			}
			if perr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", perr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_Invoke_TimeoutIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	desc := testDescriptor(server.URL, "gpt2")
	desc.Timeout = 30 * time.Millisecond
	client := NewClient(desc)

	_, err := client.Invoke(context.Background(), &providers.Request{
		Kind: providers.TaskGenerate, Prompt: "hi", MaxTokens: 10, Temperature: 0.7,
	})

	var perr *providers.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *providers.ProviderError", err)
	}
	if perr.Class != providers.FailureTransient {
		t.Errorf("Class = %s, want %s", perr.Class, providers.FailureTransient)
	}
}

func TestClient_Invoke_CallerCancellationPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(testDescriptor(server.URL, "gpt2"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Invoke(ctx, &providers.Request{
		Kind: providers.TaskGenerate, Prompt: "hi", MaxTokens: 10, Temperature: 0.7,
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestParametersFor(t *testing.T) {
	req := &providers.Request{MaxTokens: 120, Temperature: 0.7}

	tests := []struct {
		name  string
		model string
		want  inferenceParameters
	}{
		{
			name:  "gpt family uses max_new_tokens",
			model: "openai-community/gpt2",
			want:  inferenceParameters{MaxNewTokens: 120},
		},
		{
			name:  "bart family uses max_length with min_length",
			model: "facebook/bart-large-cnn",
			want:  inferenceParameters{MaxLength: 120, MinLength: 10},
		},
		{
			name:  "pegasus family uses max_length with min_length",
			model: "google/pegasus-xsum",
			want:  inferenceParameters{MaxLength: 120, MinLength: 10},
		},
		{
			name:  "dialogpt matches the gpt family",
			model: "microsoft/DialoGPT-medium",
			want:  inferenceParameters{MaxNewTokens: 120},
		},
		{
			name:  "default family carries clamped temperature",
			model: "t5-small",
			want:  inferenceParameters{MaxLength: 120, Temperature: 0.7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(testDescriptor("http://localhost", tt.model))
			got := client.parametersFor(req)
			if *got != tt.want {
				t.Errorf("parametersFor() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestClampTemperature(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "below range clamps up", in: 0.0, want: 0.1},
		{name: "above range clamps down", in: 1.8, want: 1.0},
		{name: "in range passes through", in: 0.7, want: 0.7},
		{name: "lower bound", in: 0.1, want: 0.1},
		{name: "upper bound", in: 1.0, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampTemperature(tt.in); got != tt.want {
				t.Errorf("clampTemperature(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
