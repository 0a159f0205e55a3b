package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carousel/internal/llm"
)

func TestComplete(t *testing.T) {
	tests := []struct {
		name           string
		responseBody   string
		statusCode     int
		wantErr        error
		wantErrContain string
		wantContent    string
	}{
		{
			name:         "successfulCompletion",
			responseBody: `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"[{\"title\":\"a\",\"content\":\"b\"}]"},"finish_reason":"stop"}]}`,
			statusCode:   http.StatusOK,
			wantContent:  `[{"title":"a","content":"b"}]`,
		},
		{
			name:         "noChoices",
			responseBody: `{"id":"x","object":"chat.completion","choices":[]}`,
			statusCode:   http.StatusOK,
			wantErr:      llm.ErrNoResponse,
		},
		{
			name:         "emptyContent",
			responseBody: `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`,
			statusCode:   http.StatusOK,
			wantErr:      llm.ErrEmptyResponse,
		},
		{
			name:           "unauthorized",
			responseBody:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			statusCode:     http.StatusUnauthorized,
			wantErrContain: "status 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1")
			got, err := client.Complete(context.Background(), llm.Request{System: "sys", User: "user"})

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Complete() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantErrContain != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrContain) {
					t.Errorf("Complete() error = %v, want error containing %q", err, tt.wantErrContain)
				}
			default:
				if err != nil {
					t.Fatalf("Complete() unexpected error: %v", err)
				}
				if got != tt.wantContent {
					t.Errorf("Complete() = %q, want %q", got, tt.wantContent)
				}
			}
		})
	}
}

func TestCompleteSendsParameters(t *testing.T) {
	var body map[string]any
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1")
	_, err := client.Complete(context.Background(), llm.Request{
		System:      "You are a helpful assistant.",
		User:        "prompt",
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if path != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", path)
	}
	if body["max_tokens"] != float64(800) {
		t.Errorf("max_tokens = %v, want 800", body["max_tokens"])
	}
	if temp, _ := body["temperature"].(float64); temp < 0.69 || temp > 0.71 {
		t.Errorf("temperature = %v, want 0.7", body["temperature"])
	}
	if _, ok := body["response_format"]; ok {
		t.Error("response_format should be omitted when JSON is false")
	}
}
