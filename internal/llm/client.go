// Package llm forwards a question to an OpenAI-compatible chat-completion
// endpoint and returns the reply text verbatim.
package llm

import (
	"bytes"
	"clima/internal/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrCircuitOpen is returned while the endpoint is failing and calls are
// short-circuited
var ErrCircuitOpen = errors.New("chat completion circuit breaker open")

// Message is one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Options configures a Client
type Options struct {
	BaseURL      string
	APIKey       string
	Model        string
	MaxTokens    int
	SystemPrompt string
	Timeout      time.Duration
}

// Client is a stateless chat-completion client
type Client struct {
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	opts    Options
}

// NewClient creates a new chat-completion client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         "chat-completions",
		MaxRequests:  1,
		Interval:     1 * time.Minute,
		Timeout:      30 * time.Second,
		IsSuccessful: isSuccessful,
	})
	return &Client{
		client:  &http.Client{Timeout: opts.Timeout},
		circuit: cb,
		opts:    opts,
	}
}

// BuildURL returns the chat-completions endpoint
func (c *Client) BuildURL() string {
	return strings.TrimRight(c.opts.BaseURL, "/") + "/chat/completions"
}

// BuildRequest wraps the question with the system prompt
func (c *Client) BuildRequest(question string) ChatRequest {
	var messages []Message
	if c.opts.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: c.opts.SystemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: question})
	return ChatRequest{
		Model:     c.opts.Model,
		Messages:  messages,
		MaxTokens: c.opts.MaxTokens,
	}
}

// Ask sends the raw question and returns the first choice, trimmed
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	start := time.Now()
	answer, err := c.ask(ctx, question)
	outcome := "answered"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordQuestion("llm", "llm", outcome, time.Since(start))
	return answer, err
}

func (c *Client) ask(ctx context.Context, question string) (string, error) {
	if c.opts.APIKey == "" {
		return "", fmt.Errorf("Ask: no API key configured")
	}

	body, err := json.Marshal(c.BuildRequest(question))
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BuildURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.do(req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

var errClientSide = errors.New("client error")

// client-side errors say nothing about the endpoint health
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, errClientSide)
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		msg := fmt.Sprintf("API error: status %d, body: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", errClientSide, msg)
		}
		return "", errors.New(msg)
	}

	var chat ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}
