package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	// CanonicalScheme prefixes every canonical model reference.
	CanonicalScheme = "hf://model/"
	// ReadmePlaceholderPrefix starts every placeholder for a missing README.
	ReadmePlaceholderPrefix = "README not found for model:"
)

// ModelRecord is one entry of a model listing as returned by the hub.
type ModelRecord struct {
	ID        string
	CreatedAt string
	Likes     int64
	Downloads int64
}

// RankedResult is a scored model that survived the freshness filters.
type RankedResult struct {
	ID                 string  `json:"id"`
	Downloads          int64   `json:"downloads"`
	Likes              int64   `json:"likes"`
	Score              float64 `json:"score"`
	CanonicalReference string  `json:"canonicalReference"`
}

// CanonicalReference builds the synthetic locator for a model id.
func CanonicalReference(id string) string {
	return CanonicalScheme + id
}

// SessionEntry captures one tool invocation inside a chat session.
type SessionEntry struct {
	SessionID string    `json:"sessionId"`
	Tool      string    `json:"tool"`
	Query     string    `json:"query"`
	Limit     int       `json:"limit"`
	Response  string    `json:"response"`
	Failed    bool      `json:"failed"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	// ErrTransform marks failures of the opaque text transform (LLM).
	ErrTransform = errors.New("text transform failed")
	// ErrLLMUnavailable is returned when no LLM client is configured.
	ErrLLMUnavailable = errors.New("llm client is not configured")
	// ErrUnknownTool is returned when a tool name is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// ReadmeUnavailableError reports a README that could not be fetched upstream.
// Its message doubles as the placeholder handed to callers.
type ReadmeUnavailableError struct {
	ModelID string
	Status  int
}

func (e *ReadmeUnavailableError) Error() string {
	return fmt.Sprintf("%s `%s` (Status: %d)", ReadmePlaceholderPrefix, e.ModelID, e.Status)
}
