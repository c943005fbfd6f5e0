// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// defaultOllamaChatURL is the OpenAI-compatible chat endpoint of a local
// Ollama instance.
const defaultOllamaChatURL = "http://localhost:11434/v1/chat/completions"

const defaultOllamaModel = "qwen2.5:3b"

// OllamaBackend generates text through a local Ollama chat completions
// endpoint.
type OllamaBackend struct {
	ChatURL     string
	Model       string
	Temperature float64
	Client      *http.Client
}

// chatRequest is the OpenAI-compatible chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Name identifies the backend in logs and results.
func (o *OllamaBackend) Name() string { return "ollama" }

// GenerateText sends the prompt as a single user message and returns the
// first choice's content. A connection failure (Ollama not running) is
// returned as-is, not swallowed.
func (o *OllamaBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	chatURL := o.ChatURL
	if chatURL == "" {
		chatURL = defaultOllamaChatURL
	}
	model := o.Model
	if model == "" {
		model = defaultOllamaModel
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: o.Temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama returned %d: %s", resp.StatusCode, string(msg))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Ollama response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("Ollama returned no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}

// Ping checks whether the Ollama instance behind ChatURL is reachable by
// hitting its /api/tags endpoint. Useful before a long run so a connection
// error surfaces up front instead of mid-generation.
func (o *OllamaBackend) Ping(ctx context.Context) error {
	chatURL := o.ChatURL
	if chatURL == "" {
		chatURL = defaultOllamaChatURL
	}
	u, err := url.Parse(chatURL)
	if err != nil {
		return fmt.Errorf("parsing chat URL: %w", err)
	}
	tagsURL := u.Scheme + "://" + u.Host + "/api/tags"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := o.client().Do(req)
	if err != nil {
		return fmt.Errorf("Ollama unavailable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama unavailable: status %d", resp.StatusCode)
	}
	return nil
}

func (o *OllamaBackend) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}
