package sessions

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
)

// RestoreMode selects how a session re-materializes.
type RestoreMode string

const (
	// RestoreAdditive opens the session alongside existing tabs.
	RestoreAdditive RestoreMode = "restore"
	// RestoreReplace swaps the current context for the session.
	RestoreReplace RestoreMode = "replace"
)

// RestoreResult reports what a restore did.
type RestoreResult struct {
	TabsOpened  int  `json:"tabsOpened"`
	TabsClosed  int  `json:"tabsClosed"`
	Deleted     bool `json:"deleted"`
	WindowCount int  `json:"windowCount"`
}

// Restore re-opens every link of a session as a live tab.
//
// Additive mode optionally reconstructs multi-window structure: links are
// grouped by their recorded windowId and one browser window opens per
// distinct group when more than one exists. Replace mode captures the
// current context's tab ids first, then opens, then removes the captured
// set, so the window never transiently loses its last tab.
func (r *Reconciler) Restore(ctx context.Context, key string, mode RestoreMode) (RestoreResult, error) {
	settings, err := r.store.Settings(ctx)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("failed to read settings: %w", err)
	}

	links, err := r.store.Links(ctx)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("failed to read links: %w", err)
	}
	var members []domain.Link
	for _, l := range links {
		if l.GroupingKey() == key {
			members = append(members, l)
		}
	}
	if len(members) == 0 {
		return RestoreResult{}, fmt.Errorf("session not found: %s", key)
	}

	var replaceIDs []int
	if mode == RestoreReplace {
		// Capture before any open: the ids to close must predate the
		// restore or we would close what we just opened.
		all, err := r.provider.Tabs(ctx)
		if err != nil {
			return RestoreResult{}, fmt.Errorf("failed to query tabs: %w", err)
		}
		active, err := r.provider.ActiveTab(ctx)
		if err != nil {
			return RestoreResult{}, fmt.Errorf("failed to query active tab: %w", err)
		}
		for _, c := range domain.Partition(all, active, domain.ScopeCurrent) {
			if c.Current {
				for _, t := range c.Tabs {
					replaceIDs = append(replaceIDs, t.ID)
				}
			}
		}
	}

	result := RestoreResult{}

	groups, order := groupByWindow(members)
	if mode == RestoreAdditive && settings.RestoreWindowStructure && len(groups) > 1 {
		for _, g := range order {
			urls := make([]string, 0, len(groups[g]))
			for _, l := range groups[g] {
				urls = append(urls, l.URL)
			}
			if err := r.provider.CreateWindow(ctx, urls); err != nil {
				return result, fmt.Errorf("failed to create window: %w", err)
			}
			result.TabsOpened += len(urls)
		}
		result.WindowCount = len(groups)
	} else {
		for _, l := range members {
			if _, err := r.provider.Create(ctx, l.URL, 0, false); err != nil {
				return result, fmt.Errorf("failed to create tab: %w", err)
			}
			result.TabsOpened++
		}
		result.WindowCount = 1
	}

	if mode == RestoreReplace && len(replaceIDs) > 0 {
		if err := r.provider.Remove(ctx, replaceIDs); err != nil {
			return result, fmt.Errorf("failed to close replaced tabs: %w", err)
		}
		result.TabsClosed = len(replaceIDs)
	}

	if settings.DeleteAfterRestore && mode != RestoreReplace {
		if _, err := r.DeleteSession(ctx, key); err != nil {
			return result, fmt.Errorf("failed to delete restored session: %w", err)
		}
		result.Deleted = true
	}

	r.logger.Info("session restored",
		logger.String("key", key),
		logger.String("mode", string(mode)),
		logger.Int("opened", result.TabsOpened),
		logger.Int("windows", result.WindowCount))

	return result, nil
}

// groupByWindow buckets links by their recorded windowId, zero bucketed
// under a shared default, preserving first-appearance order.
func groupByWindow(links []domain.Link) (map[int][]domain.Link, []int) {
	groups := make(map[int][]domain.Link)
	var order []int
	for _, l := range links {
		if _, ok := groups[l.WindowID]; !ok {
			order = append(order, l.WindowID)
		}
		groups[l.WindowID] = append(groups[l.WindowID], l)
	}
	return groups, order
}
