// Package tool defines the registry of auxiliary lookup tools and the
// runner that executes one tool call under a hard deadline.
package tool

import (
	"context"
	"time"
)

// DefaultTimeout applies when a descriptor does not set its own.
const DefaultTimeout = 5 * time.Second

// Input is what a tool receives for one request.
type Input struct {
	Prompt      string
	History     []string
	TokenBudget int
}

// Citation points at a source a tool's text is based on.
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Output is a tool's contribution to the answer context. Empty text with a
// nil error means the tool had nothing to add.
type Output struct {
	Text       string
	Citations  []Citation
	TokensUsed int64
}

// Tool is a pluggable capability that augments the prompt before the
// answer is generated.
type Tool interface {
	Run(ctx context.Context, in Input) (Output, error)
}

// Descriptor registers one tool with its identity and deadline.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Timeout     time.Duration
	Tool        Tool
}
