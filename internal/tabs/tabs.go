package tabs

import (
	"context"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// Provider is the browser boundary: everything the engine needs from the
// tab/window API. The real implementation talks to a companion bridge over
// HTTP; tests use the in-memory provider.
type Provider interface {
	// Tabs returns every open tab across all windows.
	Tabs(ctx context.Context) ([]domain.Tab, error)

	// ActiveTab returns the active tab of the focused window, if any.
	ActiveTab(ctx context.Context) (*domain.Tab, error)

	// Create opens a tab. windowID 0 means the focused window.
	Create(ctx context.Context, url string, windowID int, active bool) (domain.Tab, error)

	// CreateWindow opens a new window containing one tab per url.
	CreateWindow(ctx context.Context, urls []string) error

	// Remove closes the given tabs. Unknown ids are ignored.
	Remove(ctx context.Context, ids []int) error

	// Activate focuses a tab.
	Activate(ctx context.Context, id int) error
}
