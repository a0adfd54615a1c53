// Package knowledge is the local reference lookup tool. It indexes a
// directory of text documents with bleve and surfaces matching excerpts.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/mohammad-safakhou/askgate/internal/tool"
)

const excerptRunes = 280

// Doc is one indexed reference document.
type Doc struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// KnowledgeTool answers from an in-memory bleve index.
type KnowledgeTool struct {
	index      bleve.Index
	maxResults int
}

// New indexes the given documents in memory.
func New(docs []Doc, maxResults int) (*KnowledgeTool, error) {
	if maxResults <= 0 {
		maxResults = 3
	}
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("building knowledge index: %w", err)
	}
	for i, doc := range docs {
		if err := index.Index(fmt.Sprintf("doc-%d", i), doc); err != nil {
			return nil, fmt.Errorf("indexing %q: %w", doc.Title, err)
		}
	}
	return &KnowledgeTool{index: index, maxResults: maxResults}, nil
}

// NewFromDir loads every .md and .txt file under dir as a document.
func NewFromDir(dir string, maxResults int) (*KnowledgeTool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge docs: %w", err)
	}
	var docs []Doc
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".md" && ext != ".txt" {
			continue
		}
		body, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		title := strings.TrimSuffix(entry.Name(), ext)
		docs = append(docs, Doc{Title: title, Body: string(body)})
	}
	return New(docs, maxResults)
}

func (k *KnowledgeTool) Run(ctx context.Context, in tool.Input) (tool.Output, error) {
	query := bleve.NewMatchQuery(in.Prompt)
	req := bleve.NewSearchRequest(query)
	req.Size = k.maxResults
	req.Fields = []string{"title", "body"}
	res, err := k.index.SearchInContext(ctx, req)
	if err != nil {
		return tool.Output{}, err
	}
	if len(res.Hits) == 0 {
		return tool.Output{}, nil
	}

	var b strings.Builder
	citations := make([]tool.Citation, 0, len(res.Hits))
	for _, hit := range res.Hits {
		title, _ := hit.Fields["title"].(string)
		body, _ := hit.Fields["body"].(string)
		excerpt := trimExcerpt(body)
		fmt.Fprintf(&b, "- %s: %s\n", title, excerpt)
		citations = append(citations, tool.Citation{Title: title, Snippet: excerpt})
	}
	return tool.Output{Text: strings.TrimRight(b.String(), "\n"), Citations: citations}, nil
}

func trimExcerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= excerptRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:excerptRunes])) + "…"
}
