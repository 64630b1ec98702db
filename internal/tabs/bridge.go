package tabs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// Bridge talks to the companion browser endpoint that exposes the real
// tab/window API over HTTP.
type Bridge struct {
	client *resty.Client
}

// NewBridge creates a provider backed by the bridge at baseURL.
func NewBridge(baseURL string, timeout time.Duration) *Bridge {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Bridge{client: client}
}

func (b *Bridge) Tabs(ctx context.Context) ([]domain.Tab, error) {
	var tabs []domain.Tab
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&tabs).
		Get("/tabs")
	if err != nil {
		return nil, fmt.Errorf("failed to query tabs: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tab query rejected: %s", resp.Status())
	}
	return tabs, nil
}

func (b *Bridge) ActiveTab(ctx context.Context) (*domain.Tab, error) {
	var tab domain.Tab
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&tab).
		Get("/tabs/active")
	if err != nil {
		return nil, fmt.Errorf("failed to query active tab: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("active tab query rejected: %s", resp.Status())
	}
	return &tab, nil
}

func (b *Bridge) Create(ctx context.Context, url string, windowID int, active bool) (domain.Tab, error) {
	var tab domain.Tab
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"url":      url,
			"windowId": windowID,
			"active":   active,
		}).
		SetResult(&tab).
		Post("/tabs")
	if err != nil {
		return domain.Tab{}, fmt.Errorf("failed to create tab: %w", err)
	}
	if resp.IsError() {
		return domain.Tab{}, fmt.Errorf("tab create rejected: %s", resp.Status())
	}
	return tab, nil
}

func (b *Bridge) CreateWindow(ctx context.Context, urls []string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"urls": urls}).
		Post("/windows")
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("window create rejected: %s", resp.Status())
	}
	return nil
}

func (b *Bridge) Remove(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"ids": ids}).
		Post("/tabs/remove")
	if err != nil {
		return fmt.Errorf("failed to remove tabs: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("tab removal rejected: %s", resp.Status())
	}
	return nil
}

func (b *Bridge) Activate(ctx context.Context, id int) error {
	resp, err := b.client.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/tabs/%d/activate", id))
	if err != nil {
		return fmt.Errorf("failed to activate tab: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("tab activate rejected: %s", resp.Status())
	}
	return nil
}
