// Package provider abstracts the answer-generation backend.
package provider

import (
	"context"
	"errors"
	"time"

	openai_provider "github.com/mohammad-safakhou/askgate/provider/openai"
)

// Client represents different answer backends
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Reply is one completed generation.
type Reply struct {
	Text       string
	TokensUsed int64
}

// Backend is the capability the orchestrator depends on. contextBlocks are
// prepended to the prompt; tokenBudget caps the generated answer size.
type Backend interface {
	Chat(ctx context.Context, prompt string, contextBlocks []string, tokenBudget int) (Reply, error)
}

type backendFunc func(ctx context.Context, prompt string, contextBlocks []string, tokenBudget int) (Reply, error)

func (f backendFunc) Chat(ctx context.Context, prompt string, contextBlocks []string, tokenBudget int) (Reply, error) {
	return f(ctx, prompt, contextBlocks, tokenBudget)
}

// Options configures backend construction.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// New creates an answer backend for the given client type.
func New(client Client, opts Options) (Backend, error) {
	switch client {
	case OpenAI:
		if opts.APIKey == "" {
			return nil, errors.New("openai api key not set")
		}
		client := openai_provider.NewClient(opts.APIKey, opts.BaseURL, opts.Model, opts.Temperature, opts.Timeout)
		return backendFunc(func(ctx context.Context, prompt string, blocks []string, budget int) (Reply, error) {
			text, tokens, err := client.Chat(ctx, prompt, blocks, budget)
			if err != nil {
				return Reply{}, err
			}
			return Reply{Text: text, TokensUsed: tokens}, nil
		}), nil
	case Anthropic:
		return nil, errors.New("anthropic backend not implemented yet")
	default:
		return nil, errors.New("unsupported answer backend")
	}
}
