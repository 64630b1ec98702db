package domain

import (
	"fmt"
	"sort"
)

// Tab is one live browser tab as reported by the tab provider.
type Tab struct {
	ID          int    `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	FavIconURL  string `json:"favIconUrl,omitempty"`
	WindowID    int    `json:"windowId"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
	Active      bool   `json:"active,omitempty"`
}

// Scope selects how much of the live tab set an operation touches.
type Scope string

const (
	// ScopeGlobal covers every window and workspace.
	ScopeGlobal Scope = "global"
	// ScopeCurrent covers only the active window (and workspace, if any).
	ScopeCurrent Scope = "current"
)

// TabContext is one visually distinct tab strip: a window, or a workspace
// within a window. Exactly one context is current per partition call.
type TabContext struct {
	// Key is stable per (workspace, window) pairing, used to namespace
	// session ids so concurrent cleans never collide across contexts.
	Key string

	Label       string
	WindowID    int
	WorkspaceID string
	Current     bool
	Tabs        []Tab
}

// ContextKey builds the partition key for a tab. Workspace-aware browsers
// get both identifiers so two workspaces sharing a windowId stay distinct.
func ContextKey(windowID int, workspaceID string) string {
	if workspaceID != "" {
		return fmt.Sprintf("workspace-%s-win-%d", workspaceID, windowID)
	}
	return fmt.Sprintf("window-%d", windowID)
}

// Partition classifies tabs into disjoint contexts.
//
// The active tab decides scope narrowing (ScopeCurrent keeps only tabs in
// its window and workspace) and which resulting context is marked current.
// ScopeCurrent with no active tab yields no contexts at all: without an
// anchor the scope cannot widen to the full tab set.
// Window ordinals are computed over the entire tab set, not the narrowed
// subset, so "Window 2" means the same window whatever the scope.
// Contexts with no tabs never surface.
func Partition(all []Tab, active *Tab, scope Scope) []TabContext {
	ordinals := windowOrdinals(all)

	tabs := all
	if scope == ScopeCurrent {
		if active == nil {
			return nil
		}
		tabs = nil
		for _, t := range all {
			if t.WindowID != active.WindowID {
				continue
			}
			if active.WorkspaceID != "" && t.WorkspaceID != active.WorkspaceID {
				continue
			}
			tabs = append(tabs, t)
		}
	}

	byKey := make(map[string]*TabContext)
	var order []string
	for _, t := range tabs {
		key := ContextKey(t.WindowID, t.WorkspaceID)
		c, ok := byKey[key]
		if !ok {
			c = &TabContext{
				Key:         key,
				Label:       contextLabel(t.WindowID, t.WorkspaceID, ordinals),
				WindowID:    t.WindowID,
				WorkspaceID: t.WorkspaceID,
			}
			byKey[key] = c
			order = append(order, key)
		}
		c.Tabs = append(c.Tabs, t)
	}

	if active != nil {
		if c, ok := byKey[ContextKey(active.WindowID, active.WorkspaceID)]; ok {
			c.Current = true
		}
	}

	out := make([]TabContext, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// windowOrdinals assigns each window a stable small number by sorting all
// known windowIds ascending.
func windowOrdinals(tabs []Tab) map[int]int {
	seen := make(map[int]bool)
	var ids []int
	for _, t := range tabs {
		if !seen[t.WindowID] {
			seen[t.WindowID] = true
			ids = append(ids, t.WindowID)
		}
	}
	sort.Ints(ids)

	ordinals := make(map[int]int, len(ids))
	for i, id := range ids {
		ordinals[id] = i + 1
	}
	return ordinals
}

func contextLabel(windowID int, workspaceID string, ordinals map[int]int) string {
	n := ordinals[windowID]
	if workspaceID != "" {
		return fmt.Sprintf("Workspace %s (Window %d)", workspaceID, n)
	}
	return fmt.Sprintf("Window %d", n)
}
