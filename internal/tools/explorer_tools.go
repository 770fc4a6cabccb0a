package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"ModelScout/internal/domain"
)

const (
	SearchModel                = "search_model"
	GenerateSummary            = "generate_summary"
	GenerateInstallInstruction = "generate_installation_instructions"
)

// Explorer is the use case the tools delegate to.
type Explorer interface {
	Search(ctx context.Context, query string, limit int) []domain.RankedResult
	Summarize(ctx context.Context, query string, limit int) string
	InstallInstructions(ctx context.Context, query string, limit int) string
}

// NewExplorerRegistry registers the three explorer tools.
func NewExplorerRegistry(explorer Explorer) *Registry {
	return NewRegistry(
		&searchTool{explorer: explorer},
		&textTool{
			desc: descriptor(GenerateSummary,
				"Summarizes the README of the best ranked models for the query.", 2),
			run: explorer.Summarize,
		},
		&textTool{
			desc: descriptor(GenerateInstallInstruction,
				"Extracts installation and usage instructions from the README of the best ranked models for the query.", 2),
			run: explorer.InstallInstructions,
		},
	)
}

type searchTool struct {
	explorer Explorer
}

func (t *searchTool) Descriptor() Descriptor {
	return descriptor(SearchModel,
		"Searches Hugging Face for fresh, popular models matching the query. The pipeline tag is inferred from the query.", 5)
}

func (t *searchTool) Call(ctx context.Context, args Args) (Result, error) {
	results := t.explorer.Search(ctx, args.Query, resolveLimit(args.Limit, 5))
	text, err := json.Marshal(results)
	if err != nil {
		return Result{}, fmt.Errorf("encode ranking: %w", err)
	}
	return Result{Text: string(text), Structured: results}, nil
}

type textTool struct {
	desc Descriptor
	run  func(ctx context.Context, query string, limit int) string
}

func (t *textTool) Descriptor() Descriptor { return t.desc }

func (t *textTool) Call(ctx context.Context, args Args) (Result, error) {
	return Result{Text: t.run(ctx, args.Query, resolveLimit(args.Limit, t.desc.DefaultLimit))}, nil
}

// resolveLimit applies the default for a missing limit and clamps negatives to zero.
func resolveLimit(limit *int, def int) int {
	if limit == nil {
		return def
	}
	if *limit < 0 {
		return 0
	}
	return *limit
}

func descriptor(name, description string, defaultLimit int) Descriptor {
	return Descriptor{
		Name:         name,
		Description:  description,
		DefaultLimit: defaultLimit,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Free-text description of the wanted model."},
				"limit": map[string]any{"type": "integer", "description": "Maximum number of models.", "default": defaultLimit},
			},
			"required": []string{"query"},
		},
	}
}
