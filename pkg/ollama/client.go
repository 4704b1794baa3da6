// Package ollama is a client for a local Ollama server, backing the AI chat
// and search commands. It keeps a short per-user conversation history so
// follow-up prompts stay coherent.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// historyLimit caps how many past messages are replayed per user.
const historyLimit = 10

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an Ollama server. The current model is process-wide mutable
// state guarded by the mutex, like the per-user histories.
type Client struct {
	host string
	http *http.Client

	mu        sync.Mutex
	model     string
	histories map[string][]Message
}

// New creates a client for the given host (e.g. "http://localhost:11434").
func New(host, model string) *Client {
	return &Client{
		host:      host,
		http:      &http.Client{Timeout: 120 * time.Second},
		model:     model,
		histories: make(map[string][]Message),
	}
}

// Model returns the currently selected model.
func (c *Client) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// SetModel switches the model used for subsequent chats.
func (c *Client) SetModel(model string) {
	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
}

// ListModels returns the names of the models the server has pulled.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build tags request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "ollama tags request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("ollama returned %s", resp.Status)
	}

	var body struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode tags response")
	}
	names := make([]string, 0, len(body.Models))
	for _, m := range body.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Chat sends the user's prompt with their recent history and returns the
// assistant reply. userID keys the history; an empty ID chats statelessly.
func (c *Client) Chat(ctx context.Context, userID, prompt string) (string, error) {
	c.mu.Lock()
	model := c.model
	messages := append([]Message{}, c.histories[userID]...)
	c.mu.Unlock()

	messages = append(messages, Message{Role: "user", Content: prompt})

	payload, err := json.Marshal(struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
		Stream   bool      `json:"stream"`
	}{Model: model, Messages: messages, Stream: false})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to build chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ollama chat request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("ollama returned %s", resp.Status)
	}

	var body struct {
		Message Message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "failed to decode chat response")
	}

	if userID != "" {
		c.remember(userID, prompt, body.Message.Content)
	}
	return body.Message.Content, nil
}

// remember appends the exchange to the user's history, trimming old turns.
func (c *Client) remember(userID, prompt, reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := append(c.histories[userID],
		Message{Role: "user", Content: prompt},
		Message{Role: "assistant", Content: reply})
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	c.histories[userID] = h
}

// ClearHistory drops a user's conversation history.
func (c *Client) ClearHistory(userID string) {
	c.mu.Lock()
	delete(c.histories, userID)
	c.mu.Unlock()
}
