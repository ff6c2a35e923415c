package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-tailor/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.apiURL = srv.URL
	return client
}

func completionResponse(content string) string {
	resp := map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4.1-2025-04-14",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
	out, _ := json.Marshal(resp)
	return string(out)
}

func TestCompleteSendsSamplingParams(t *testing.T) {
	var captured map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(completionResponse("hello")))
	})

	out, err := client.Complete(context.Background(), llm.Request{
		System: "You are helpful.",
		User:   "Say hello.",
		Params: llm.SamplingParams{
			Model:            "gpt-4.1-2025-04-14",
			MaxTokens:        30000,
			Temperature:      0.5,
			PresencePenalty:  0.3,
			FrequencyPenalty: 0.2,
		},
		JSONOnly: true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hello" {
		t.Fatalf("out = %q", out)
	}

	for _, key := range []string{"model", "messages", "max_tokens", "temperature", "presence_penalty", "frequency_penalty", "response_format"} {
		if _, ok := captured[key]; !ok {
			t.Fatalf("request missing %q: %v", key, captured)
		}
	}
	if string(captured["response_format"]) != `{"type":"json_object"}` {
		t.Fatalf("response_format = %s", captured["response_format"])
	}

	var messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(captured["messages"], &messages); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(messages) != 2 || messages[0].Role != "system" || messages[1].Role != "user" {
		t.Fatalf("messages = %+v", messages)
	}
}

func TestCompleteOmitsZeroPenalties(t *testing.T) {
	var captured map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(completionResponse("plain answer")))
	})

	_, err := client.Complete(context.Background(), llm.Request{
		User:   "A question.",
		Params: llm.SamplingParams{Model: "gpt-4.1-2025-04-14"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	for _, key := range []string{"presence_penalty", "frequency_penalty", "response_format"} {
		if _, ok := captured[key]; ok {
			t.Fatalf("request must omit %q when unset: %v", key, captured)
		}
	}
	// Temperature 0 is a deliberate setting and always goes on the wire.
	if string(captured["temperature"]) != "0" {
		t.Fatalf("temperature = %s", captured["temperature"])
	}
}

func TestCompleteRequiresModel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	})
	if _, err := client.Complete(context.Background(), llm.Request{User: "hi"}); err == nil {
		t.Fatal("expected error without model")
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	})
	_, err := client.Complete(context.Background(), llm.Request{
		User:   "hi",
		Params: llm.SamplingParams{Model: "gpt-4.1-2025-04-14"},
	})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "choices": []}`))
	})
	_, err := client.Complete(context.Background(), llm.Request{
		User:   "hi",
		Params: llm.SamplingParams{Model: "gpt-4.1-2025-04-14"},
	})
	if err == nil || !strings.Contains(err.Error(), "choices") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(" "); err == nil {
		t.Fatal("expected error for blank key")
	}
}
