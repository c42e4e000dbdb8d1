package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	var gotReq map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"content": "[{\"id\": \"b\", \"score\": 6}]"}, "finish_reason": "stop"}],
			"model": "gpt-4o-mini",
			"usage": {"prompt_tokens": 300, "completion_tokens": 25}
		}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "")
	p.SetEndpoint(server.URL)

	resp, err := p.Generate(context.Background(), Request{
		SystemPrompt: "You rank articles.",
		UserPrompt:   "Rank these.",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if resp.Content != `[{"id": "b", "score": 6}]` {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.Usage.InputTokens != 300 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage not parsed: %+v", resp.Usage)
	}

	// System prompt rides as the first message
	msgs, ok := gotReq["messages"].([]interface{})
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", gotReq["messages"])
	}
	first := msgs[0].(map[string]interface{})
	if first["role"] != "system" {
		t.Errorf("first message should be the system prompt, got %v", first["role"])
	}
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "")
	p.SetEndpoint(server.URL)

	if _, err := p.Generate(context.Background(), Request{UserPrompt: "hi"}); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [], "model": "m", "usage": {}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "")
	p.SetEndpoint(server.URL)

	if _, err := p.Generate(context.Background(), Request{UserPrompt: "hi"}); err == nil {
		t.Error("expected error on empty choices")
	}
}

func TestOpenAINotConfigured(t *testing.T) {
	p := NewOpenAIProvider("", "")
	if p.Available() {
		t.Error("provider without a key must not be available")
	}
	if _, err := p.Generate(context.Background(), Request{UserPrompt: "hi"}); err == nil {
		t.Error("expected error when not configured")
	}
}
