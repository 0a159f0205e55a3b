package groq

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

func completionBody(content string, choices bool) string {
	resp := map[string]any{
		"id":      "test-id",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "llama3-8b-8192",
		"choices": []any{},
		"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
	if choices {
		resp["choices"] = []any{map[string]any{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}}
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

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
			responseBody: completionBody(`{"cover_title":"Focus"}`, true),
			statusCode:   http.StatusOK,
			wantContent:  `{"cover_title":"Focus"}`,
		},
		{
			name:         "emptyResponse",
			responseBody: completionBody("", true),
			statusCode:   http.StatusOK,
			wantErr:      llm.ErrEmptyResponse,
		},
		{
			name:         "noChoices",
			responseBody: completionBody("", false),
			statusCode:   http.StatusOK,
			wantErr:      llm.ErrNoResponse,
		},
		{
			name:           "httpErrorUnauthorized",
			responseBody:   `{"error": {"message": "invalid api key", "type": "authentication_error"}}`,
			statusCode:     http.StatusUnauthorized,
			wantErrContain: "generate",
		},
		{
			name:           "httpErrorBadRequest",
			responseBody:   `{"error": {"message": "bad request", "type": "invalid_request_error"}}`,
			statusCode:     http.StatusBadRequest,
			wantErrContain: "generate",
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

			client, err := NewClient("test-api-key", "llama3-8b-8192", server.URL)
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}

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

func TestCompleteSendsRequestShape(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("{}", true)))
	}))
	defer server.Close()

	client, err := NewClient("test-api-key", "llama3-8b-8192", server.URL)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	_, err = client.Complete(context.Background(), llm.Request{
		System:      "You are a helpful assistant.",
		User:        "make slides",
		Temperature: 0.7,
		MaxTokens:   1000,
		JSON:        true,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if body["model"] != "llama3-8b-8192" {
		t.Errorf("model = %v", body["model"])
	}
	if body["max_tokens"] != float64(1000) {
		t.Errorf("max_tokens = %v, want 1000", body["max_tokens"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "You are a helpful assistant." {
		t.Errorf("system message = %v", first)
	}
	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", body["response_format"])
	}
}
