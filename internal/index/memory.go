package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// MemoryIndex holds a read-optimized snapshot of the persisted link log.
// Dashboard reads (grouping, filtering) hit the snapshot; the schedulers
// refresh it from Redis periodically and on change events. It is a cache,
// never a write path: mutations always go through the store.
type MemoryIndex struct {
	mu          sync.RWMutex
	links       []domain.Link
	sessions    []domain.Session
	lastRefresh time.Time
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// UpdateLinks replaces the snapshot and rebuilds the derived session view.
func (idx *MemoryIndex) UpdateLinks(links []domain.Link) {
	sessions := domain.GroupSessions(links)
	domain.SortSessions(sessions)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.links = links
	idx.sessions = sessions
	idx.lastRefresh = time.Now()
}

// Links returns a copy of the snapshot.
func (idx *MemoryIndex) Links() []domain.Link {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]domain.Link, len(idx.links))
	copy(out, idx.links)
	return out
}

// Sessions returns the derived session view, display-sorted.
func (idx *MemoryIndex) Sessions() []domain.Session {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]domain.Session, len(idx.sessions))
	copy(out, idx.sessions)
	return out
}

// Filter returns the snapshot links passing the filter, in log order.
func (idx *MemoryIndex) Filter(f domain.LinkFilter) []domain.Link {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.FilterLinks(idx.links, f)
}

// Count returns the number of links in the snapshot.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.links)
}

// SessionCount returns the number of derived sessions.
func (idx *MemoryIndex) SessionCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.sessions)
}

// LastRefresh returns when the snapshot was last rebuilt.
func (idx *MemoryIndex) LastRefresh() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastRefresh
}
