package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClient_ToolCallsRoundTrip(t *testing.T) {
	var captured openAIChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		response := openAIChatResponse{
			ID:    "chatcmpl-1",
			Model: "test-model",
			Choices: []openAIChatChoice{
				{
					FinishReason: "tool_calls",
					Message: &openAIChatMessage{
						Role: "assistant",
						ToolCalls: []map[string]interface{}{
							{
								"id":   "call_1",
								"type": "function",
								"function": map[string]interface{}{
									"name": "correct_text",
									// Providers may return structured
									// arguments; the client stringifies them.
									"arguments": map[string]interface{}{"find": "teh", "replace": "the"},
								},
							},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client, err := NewOpenAICompatibleClient("", server.URL, "test-model")
	if err != nil {
		t.Fatalf("NewOpenAICompatibleClient failed: %v", err)
	}

	resp, err := client.CompleteWithRequest(context.Background(), &CompletionRequest{
		SystemPrompt: "You fix transcripts.",
		Messages: []*Message{
			{Role: "user", Content: "Fix 'teh'"},
		},
		Tools: []map[string]interface{}{
			{"type": "function", "function": map[string]interface{}{"name": "correct_text"}},
		},
	})
	if err != nil {
		t.Fatalf("CompleteWithRequest failed: %v", err)
	}

	// System prompt becomes the leading message.
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("expected injected system message, got %+v", captured.Messages)
	}
	if len(captured.Tools) != 1 {
		t.Fatalf("expected tool schema forwarded, got %d tools", len(captured.Tools))
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	fn, ok := resp.ToolCalls[0]["function"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected function map, got %T", resp.ToolCalls[0]["function"])
	}
	args, ok := fn["arguments"].(string)
	if !ok {
		t.Fatalf("expected stringified arguments, got %T", fn["arguments"])
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(args), &decoded); err != nil {
		t.Fatalf("arguments are not valid JSON: %v", err)
	}
	if decoded["find"] != "teh" {
		t.Errorf("expected find='teh', got %v", decoded["find"])
	}
}

func TestOpenAIClient_ErrorStatusPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewOpenAICompatibleClient("", server.URL, "test-model")
	if err != nil {
		t.Fatalf("NewOpenAICompatibleClient failed: %v", err)
	}

	_, err = client.CompleteWithRequest(context.Background(), &CompletionRequest{
		Messages: []*Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAIChatResponse{ID: "chatcmpl-2"})
	}))
	defer server.Close()

	client, err := NewOpenAICompatibleClient("", server.URL, "test-model")
	if err != nil {
		t.Fatalf("NewOpenAICompatibleClient failed: %v", err)
	}

	resp, err := client.CompleteWithRequest(context.Background(), &CompletionRequest{
		Messages: []*Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("CompleteWithRequest failed: %v", err)
	}
	if resp.StopReason != "stop" {
		t.Errorf("expected stop reason 'stop', got %q", resp.StopReason)
	}
}
