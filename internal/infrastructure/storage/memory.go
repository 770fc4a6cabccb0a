package storage

import (
	"context"
	"sync"

	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
)

// MemorySessionLog keeps session history in process memory.
type MemorySessionLog struct {
	mu       sync.RWMutex
	sessions map[string][]domain.SessionEntry
}

var _ ports.SessionLog = (*MemorySessionLog)(nil)

// NewMemorySessionLog creates an empty in-memory session log.
func NewMemorySessionLog() *MemorySessionLog {
	return &MemorySessionLog{sessions: make(map[string][]domain.SessionEntry)}
}

func (s *MemorySessionLog) Append(_ context.Context, entry domain.SessionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[entry.SessionID] = append(s.sessions[entry.SessionID], entry)
	return nil
}

// History returns up to limit of the most recent entries, oldest first.
func (s *MemorySessionLog) History(_ context.Context, sessionID string, limit int) ([]domain.SessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.sessions[sessionID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return append([]domain.SessionEntry{}, entries...), nil
}

func (s *MemorySessionLog) Close() error { return nil }
