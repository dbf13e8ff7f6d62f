package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumematch-backend/internal/llm"
)

func TestCompleteSendsMessagesAndTemperature(t *testing.T) {
	var lastBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&lastBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  hello  "}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", "test-model")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := client.Complete(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "be terse"},
		{Role: llm.RoleUser, Content: "say hello"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Complete = %q, want trimmed hello", got)
	}

	if lastBody["model"] != "test-model" {
		t.Fatalf("model = %v", lastBody["model"])
	}
	messages, ok := lastBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", lastBody["messages"])
	}
	if temp, ok := lastBody["temperature"].(float64); !ok || temp < 0.09 || temp > 0.11 {
		t.Fatalf("temperature = %v, want 0.1", lastBody["temperature"])
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", "missing-model")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestNewClientRequiresModel(t *testing.T) {
	if _, err := NewClient("", "key", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}
