package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
	"ModelScout/internal/ranker"
	"ModelScout/internal/readme"
)

// NoModelsMessage is returned by the text tools when ranking yields nothing.
const NoModelsMessage = "No models found matching your query."

// ExplorerDeps wires the driven adapters into the model explorer.
type ExplorerDeps struct {
	Source     ports.ModelSource
	Readmes    ports.ReadmeSource
	Chat       ports.ChatClient
	Ranker     *ranker.Ranker
	Normalizer *readme.Normalizer
	Tags       []string
	DefaultTag string
	Logger     *slog.Logger
}

// Explorer implements search, summary and installation-guide workflows.
type Explorer struct {
	source     ports.ModelSource
	readmes    ports.ReadmeSource
	chat       ports.ChatClient
	ranker     *ranker.Ranker
	normalizer *readme.Normalizer
	tags       []string
	defaultTag string
	logger     *slog.Logger
}

// NewExplorer constructs the orchestration component.
func NewExplorer(deps ExplorerDeps) *Explorer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = readme.NewNormalizer(logger)
	}
	return &Explorer{
		source:     deps.Source,
		readmes:    deps.Readmes,
		chat:       deps.Chat,
		ranker:     deps.Ranker,
		normalizer: normalizer,
		tags:       deps.Tags,
		defaultTag: deps.DefaultTag,
		logger:     logger,
	}
}

// ClassifyTag asks the LLM which pipeline tag fits query. Unknown answers and
// LLM failures fall back to the default tag.
func (e *Explorer) ClassifyTag(ctx context.Context, query string) string {
	if e.chat == nil || len(e.tags) == 0 {
		return e.defaultTag
	}

	answer, err := e.chat.Complete(ctx, tagPrompt(query, e.tags))
	if err != nil {
		e.logger.Warn("tag classification failed", "err", err)
		return e.defaultTag
	}

	tag := strings.ToLower(strings.Trim(strings.TrimSpace(answer), "`'\".- "))
	for _, known := range e.tags {
		if tag == known {
			return tag
		}
	}

	e.logger.Debug("unknown tag from classifier", "answer", answer, "fallback", e.defaultTag)
	return e.defaultTag
}

// Search ranks the listing for the tag inferred from query. Retrieval failures
// yield an empty ranking.
func (e *Explorer) Search(ctx context.Context, query string, limit int) []domain.RankedResult {
	if e.source == nil || e.ranker == nil {
		return []domain.RankedResult{}
	}

	tag := e.ClassifyTag(ctx, query)
	records, err := e.source.ListModels(ctx, tag)
	if err != nil {
		e.logger.Warn("model listing failed", "tag", tag, "err", err)
		return []domain.RankedResult{}
	}

	results := e.ranker.Rank(records, limit)
	e.logger.Info("search completed", "tag", tag, "listed", len(records), "ranked", len(results))
	return results
}

// Summarize produces one README summary section per ranked model.
func (e *Explorer) Summarize(ctx context.Context, query string, limit int) string {
	return e.perModel(ctx, query, limit, "summary", summaryPrompt)
}

// InstallInstructions produces one installation guide section per ranked model.
func (e *Explorer) InstallInstructions(ctx context.Context, query string, limit int) string {
	return e.perModel(ctx, query, limit, "installation instructions", installPrompt)
}

func (e *Explorer) perModel(ctx context.Context, query string, limit int, what string, prompt func(id, readme string) string) string {
	results := e.Search(ctx, query, limit)
	if len(results) == 0 {
		return NoModelsMessage
	}

	sections := make([]string, 0, len(results))
	for _, result := range results {
		body := e.describe(ctx, result.ID, what, prompt)
		sections = append(sections, fmt.Sprintf("for Model: %s\n%s", result.ID, body))
	}
	return strings.Join(sections, "\n\n")
}

func (e *Explorer) describe(ctx context.Context, modelID, what string, prompt func(id, readme string) string) string {
	text, ok := e.loadReadme(ctx, modelID)
	if !ok {
		return text
	}

	if e.chat == nil {
		return failedTo(what, modelID, domain.ErrLLMUnavailable)
	}
	out, err := e.chat.Complete(ctx, prompt(modelID, text))
	if err != nil {
		e.logger.Warn("llm transform failed", "model", modelID, "what", what, "err", err)
		return failedTo(what, modelID, err)
	}
	return out
}

// loadReadme returns the normalized README and true, or an inline warning and
// false when there is nothing to hand to the LLM.
func (e *Explorer) loadReadme(ctx context.Context, modelID string) (string, bool) {
	if e.readmes == nil {
		return readme.FailureMessage(modelID, errors.New("no readme source configured")), false
	}

	raw, err := e.readmes.FetchReadme(ctx, modelID)
	if err != nil {
		var unavailable *domain.ReadmeUnavailableError
		if errors.As(err, &unavailable) {
			return "⚠️ " + unavailable.Error(), false
		}
		e.logger.Warn("readme fetch failed", "model", modelID, "err", err)
		return readme.FailureMessage(modelID, err), false
	}

	text := e.normalizer.Normalize(modelID, raw)
	switch {
	case readme.IsPlaceholder(text):
		return "⚠️ " + text, false
	case readme.IsFailure(text):
		return text, false
	}
	return text, true
}

func failedTo(what, modelID string, err error) string {
	return fmt.Sprintf("⚠️ Failed to generate %s for model %s: %v", what, modelID, err)
}
