// Package oracle talks to the text-generation model that turns free-form
// craving text into instruction blocks. It speaks the OpenAI-compatible
// chat-completions API that llama.cpp's server mode exposes; the model's
// output is untrusted and goes straight to the command parser.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type Client struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Client {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation keeps one session's chat history, seeded with the system
// prompt. Not safe for concurrent use; each ordering session owns one.
type Conversation struct {
	c        *Client
	messages []Message
}

func (c *Client) NewConversation() *Conversation {
	return &Conversation{
		c:        c,
		messages: []Message{{Role: "system", Content: SystemPrompt}},
	}
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Ask appends the user text to the history and returns the model's raw
// instruction block. On failure the user turn is dropped so the history
// stays consistent for a retry.
func (v *Conversation) Ask(ctx context.Context, userText string) (string, error) {
	v.messages = append(v.messages, Message{Role: "user", Content: userText})

	out, err := v.c.complete(ctx, v.messages)
	if err != nil {
		v.messages = v.messages[:len(v.messages)-1]
		return "", err
	}
	v.messages = append(v.messages, Message{Role: "assistant", Content: out})
	return out, nil
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("oracle status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("oracle response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("oracle response: no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
