package anthropic

import (
	"fmt"
	"os"
)

const (
	url        = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	endMessage  = "[DONE]"
	chunkPrefix = "data:"

	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
)

// Client talks to the messages completion endpoint, streaming or not.
type Client struct {
	apiKey    string
	model     string
	maxTokens int
}

type ClientOption func(*Client)

// WithModel overrides the default model.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens overrides the default response token cap.
func WithMaxTokens(maxTokens int) ClientOption {
	return func(c *Client) { c.maxTokens = maxTokens }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		apiKey:    apiKey,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewClientFromEnv creates a client keyed from ANTHROPIC_API_KEY.
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	apiKey, ok := os.LookupEnv("ANTHROPIC_API_KEY")
	if !ok {
		return nil, fmt.Errorf("anthropic api key not found")
	}
	return NewClient(apiKey, opts...), nil
}
