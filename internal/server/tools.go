package server

import (
	"fmt"

	"github.com/mohammad-safakhou/askgate/config"
	"github.com/mohammad-safakhou/askgate/internal/tool"
	"github.com/mohammad-safakhou/askgate/tools/calc"
	"github.com/mohammad-safakhou/askgate/tools/knowledge"
	"github.com/mohammad-safakhou/askgate/tools/websearch"
)

// buildRegistry assembles the tool descriptors from config. Registration
// order is web, math, kb; that order is also the context merge order.
func buildRegistry(cfg config.ToolsConfig) (*tool.Registry, error) {
	var descriptors []tool.Descriptor

	if cfg.WebSearch.Enabled {
		apiKey := cfg.WebSearch.SerperAPIKey
		if websearch.Provider(cfg.WebSearch.Provider) == websearch.BraveProvider {
			apiKey = cfg.WebSearch.BraveAPIKey
		}
		searcher, err := websearch.NewSearcher(websearch.Provider(cfg.WebSearch.Provider), apiKey)
		if err != nil {
			return nil, fmt.Errorf("building web search: %w", err)
		}
		descriptors = append(descriptors, tool.Descriptor{
			ID:          "web",
			Name:        "Web Search",
			Description: "Searches the web and cites matching pages",
			Enabled:     true,
			Timeout:     cfg.WebSearch.Timeout,
			Tool:        websearch.New(searcher, cfg.WebSearch.MaxResults),
		})
	}

	if cfg.Calc.Enabled {
		descriptors = append(descriptors, tool.Descriptor{
			ID:          "math",
			Name:        "Calculator",
			Description: "Evaluates arithmetic expressions found in the prompt",
			Enabled:     true,
			Timeout:     cfg.Calc.Timeout,
			Tool:        calc.New(),
		})
	}

	if cfg.Knowledge.Enabled {
		kb, err := knowledge.NewFromDir(cfg.Knowledge.DocsDir, cfg.Knowledge.MaxResults)
		if err != nil {
			return nil, fmt.Errorf("building knowledge tool: %w", err)
		}
		descriptors = append(descriptors, tool.Descriptor{
			ID:          "kb",
			Name:        "Knowledge Base",
			Description: "Looks up excerpts from the local reference documents",
			Enabled:     true,
			Timeout:     cfg.Knowledge.Timeout,
			Tool:        kb,
		})
	}

	return tool.NewRegistry(descriptors)
}
