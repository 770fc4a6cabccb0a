// Package tools exposes the model explorer as named, invokable operations.
package tools

import (
	"context"
	"fmt"
	"sort"

	"ModelScout/internal/domain"
)

// Args is the argument object every tool accepts. A nil Limit selects the
// tool's default.
type Args struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// Result carries the plain-text answer and, for structured tools, the value
// it was rendered from.
type Result struct {
	Text       string `json:"text"`
	Structured any    `json:"structured,omitempty"`
}

// Descriptor advertises a tool to clients.
type Descriptor struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	DefaultLimit int            `json:"defaultLimit"`
	InputSchema  map[string]any `json:"inputSchema"`
}

// Tool is a single named operation.
type Tool interface {
	Descriptor() Descriptor
	Call(ctx context.Context, args Args) (Result, error)
}

// Registry keeps a mapping from tool names to their implementations.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry holding tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: map[string]Tool{}}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a tool implementation.
func (r *Registry) Register(tool Tool) {
	if r.tools == nil {
		r.tools = map[string]Tool{}
	}
	r.tools[tool.Descriptor().Name] = tool
}

// Resolve returns a tool by name or an error wrapping domain.ErrUnknownTool.
func (r *Registry) Resolve(name string) (Tool, error) {
	if tool, ok := r.tools[name]; ok {
		return tool, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
}

// List returns every descriptor ordered by name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call resolves name and invokes it.
func (r *Registry) Call(ctx context.Context, name string, args Args) (Result, error) {
	tool, err := r.Resolve(name)
	if err != nil {
		return Result{}, err
	}
	return tool.Call(ctx, args)
}
