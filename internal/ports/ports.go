package ports

import (
	"context"
	"time"

	"ModelScout/internal/domain"
)

// ModelSource pulls model listings for a pipeline tag from the hub.
type ModelSource interface {
	ListModels(ctx context.Context, tag string) ([]domain.ModelRecord, error)
}

// ReadmeSource fetches the raw README markup of a model.
type ReadmeSource interface {
	FetchReadme(ctx context.Context, modelID string) (string, error)
}

// ChatClient is the opaque text transform backed by an LLM: text in, text out.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SessionLog keeps an append-only history of tool invocations per session.
type SessionLog interface {
	Append(ctx context.Context, entry domain.SessionEntry) error
	History(ctx context.Context, sessionID string, limit int) ([]domain.SessionEntry, error)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
