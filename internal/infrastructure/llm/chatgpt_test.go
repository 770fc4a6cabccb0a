package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ModelScout/internal/config"
	"ModelScout/internal/domain"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	t.Parallel()

	var got chatRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  text-generation \n"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewChatGPTClient(config.LLMConfig{
		Endpoint:     server.URL,
		Model:        "gemini-2.5-flash",
		APIKey:       "secret",
		SystemPrompt: "system",
		Temperature:  0.2,
	})

	out, err := client.Complete(context.Background(), "classify this")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "text-generation" {
		t.Fatalf("unexpected output: %q", out)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if got.Model != "gemini-2.5-flash" || got.Temperature != 0.2 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "classify this" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestCompleteWrapsFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewChatGPTClient(config.LLMConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	_, err := client.Complete(context.Background(), "hi")
	if !errors.Is(err, domain.ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewChatGPTClient(config.LLMConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	if _, err := client.Complete(context.Background(), "hi"); !errors.Is(err, domain.ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	t.Parallel()

	client := NewChatGPTClient(config.LLMConfig{Endpoint: "http://unused", Model: "m"})
	if client.Configured() {
		t.Fatalf("client without key must not be configured")
	}
	_, err := client.Complete(context.Background(), "hi")
	if !errors.Is(err, domain.ErrLLMUnavailable) || !errors.Is(err, domain.ErrTransform) {
		t.Fatalf("expected unavailable transform error, got %v", err)
	}
}
