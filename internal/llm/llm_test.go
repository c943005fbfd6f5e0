// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/post-engine/pkg/types"
)

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantName string
	}{
		{"no key uses ollama", "", "ollama"},
		{"placeholder key uses ollama", keyPlaceholder, "ollama"},
		{"real key uses anthropic", "sk-ant-real", "anthropic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(types.GeneratorConfig{AnthropicAPIKey: tt.key})
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
		})
	}
}

func TestOllamaGenerateText(t *testing.T) {
	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "【标题】生成结果"}},
			},
		})
	}))
	defer ts.Close()

	backend := &OllamaBackend{
		ChatURL:     ts.URL + "/v1/chat/completions",
		Model:       "qwen2.5:3b",
		Temperature: 0.7,
		Client:      ts.Client(),
	}

	got, err := backend.GenerateText(context.Background(), "写一篇文案")
	if err != nil {
		t.Fatal(err)
	}
	if got != "【标题】生成结果" {
		t.Errorf("got %q", got)
	}
	if gotReq.Model != "qwen2.5:3b" || gotReq.Stream {
		t.Errorf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "写一篇文案" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestOllamaGenerateTextErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantSub string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantSub: "404",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
			wantSub: "no choices",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			backend := &OllamaBackend{ChatURL: ts.URL, Client: ts.Client()}
			_, err := backend.GenerateText(context.Background(), "p")
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("err = %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestOllamaPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer ts.Close()

	backend := &OllamaBackend{ChatURL: ts.URL + "/v1/chat/completions", Client: ts.Client()}
	if err := backend.Ping(context.Background()); err != nil {
		t.Errorf("Ping() = %v", err)
	}
}

func TestAnthropicGenerateText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.MaxTokens != 1000 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{
				{Type: "thinking", Text: "ignored"},
				{Type: "text", Text: "【标题】结果"},
			},
		})
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	backend := &AnthropicBackend{APIKey: "sk-ant-test", Model: "claude-3-5-sonnet-20241022", Client: ts.Client()}
	got, err := backend.GenerateText(context.Background(), "写一篇文案")
	if err != nil {
		t.Fatal(err)
	}
	if got != "【标题】结果" {
		t.Errorf("got %q", got)
	}
}

func TestAnthropicNoTextContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	backend := &AnthropicBackend{APIKey: "k", Client: ts.Client()}
	_, err := backend.GenerateText(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "no text content") {
		t.Errorf("err = %v", err)
	}
}
