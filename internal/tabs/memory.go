package tabs

import (
	"context"
	"sort"
	"sync"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// MemoryProvider is an in-process tab set. Used by tests and local dry runs.
type MemoryProvider struct {
	mu         sync.Mutex
	tabs       map[int]domain.Tab
	order      []int
	nextID     int
	nextWindow int
}

func NewMemoryProvider(initial ...domain.Tab) *MemoryProvider {
	p := &MemoryProvider{
		tabs:       make(map[int]domain.Tab),
		nextID:     1,
		nextWindow: 1000,
	}
	for _, t := range initial {
		if t.ID >= p.nextID {
			p.nextID = t.ID + 1
		}
		if t.WindowID >= p.nextWindow {
			p.nextWindow = t.WindowID + 1
		}
		p.tabs[t.ID] = t
		p.order = append(p.order, t.ID)
	}
	return p
}

func (p *MemoryProvider) Tabs(ctx context.Context) ([]domain.Tab, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.Tab, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.tabs[id])
	}
	return out, nil
}

func (p *MemoryProvider) ActiveTab(ctx context.Context) (*domain.Tab, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range p.order {
		t := p.tabs[id]
		if t.Active {
			return &t, nil
		}
	}
	return nil, nil
}

func (p *MemoryProvider) Create(ctx context.Context, url string, windowID int, active bool) (domain.Tab, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if windowID == 0 {
		windowID = p.focusedWindowLocked()
	}
	t := domain.Tab{ID: p.nextID, URL: url, WindowID: windowID, Active: active}
	p.nextID++
	p.tabs[t.ID] = t
	p.order = append(p.order, t.ID)
	return t, nil
}

func (p *MemoryProvider) CreateWindow(ctx context.Context, urls []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	windowID := p.nextWindow
	p.nextWindow++
	for _, u := range urls {
		t := domain.Tab{ID: p.nextID, URL: u, WindowID: windowID}
		p.nextID++
		p.tabs[t.ID] = t
		p.order = append(p.order, t.ID)
	}
	return nil
}

func (p *MemoryProvider) Remove(ctx context.Context, ids []int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(p.tabs, id)
	}
	kept := p.order[:0]
	for _, id := range p.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	p.order = kept
	return nil
}

func (p *MemoryProvider) Activate(ctx context.Context, id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	target, ok := p.tabs[id]
	if !ok {
		return nil
	}
	for tid, t := range p.tabs {
		if t.WindowID == target.WindowID {
			t.Active = tid == id
			p.tabs[tid] = t
		}
	}
	return nil
}

// WindowIDs returns the distinct window ids currently open, sorted.
func (p *MemoryProvider) WindowIDs() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[int]bool)
	var ids []int
	for _, id := range p.order {
		w := p.tabs[id].WindowID
		if !seen[w] {
			seen[w] = true
			ids = append(ids, w)
		}
	}
	sort.Ints(ids)
	return ids
}

func (p *MemoryProvider) focusedWindowLocked() int {
	for _, id := range p.order {
		if p.tabs[id].Active {
			return p.tabs[id].WindowID
		}
	}
	if len(p.order) > 0 {
		return p.tabs[p.order[0]].WindowID
	}
	return 1
}
