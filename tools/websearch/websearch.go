// Package websearch is the web lookup tool backed by a search API vendor.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/askgate/internal/tool"
	"github.com/mohammad-safakhou/askgate/tools/websearch/brave"
	"github.com/mohammad-safakhou/askgate/tools/websearch/models"
	"github.com/mohammad-safakhou/askgate/tools/websearch/serper"
)

// Searcher finds web results for a query.
type Searcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

// Provider selects the search vendor.
type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

// NewSearcher builds the vendor client for a provider.
func NewSearcher(provider Provider, apiKey string) (Searcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", provider)
	}
}

// WebTool adapts a Searcher to the tool interface, rendering hits as a
// bulleted context block with one citation per hit.
type WebTool struct {
	searcher   Searcher
	maxResults int
}

// New builds the tool.
func New(searcher Searcher, maxResults int) *WebTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebTool{searcher: searcher, maxResults: maxResults}
}

func (w *WebTool) Run(ctx context.Context, in tool.Input) (tool.Output, error) {
	results, err := w.searcher.Discover(ctx, in.Prompt, w.maxResults)
	if err != nil {
		return tool.Output{}, err
	}
	if len(results) == 0 {
		return tool.Output{}, nil
	}

	var b strings.Builder
	citations := make([]tool.Citation, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, r.Snippet)
		citations = append(citations, tool.Citation{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return tool.Output{Text: strings.TrimRight(b.String(), "\n"), Citations: citations}, nil
}
