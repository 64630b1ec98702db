package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store/memory"
	"github.com/MrSnakeDoc/tabkeeper/internal/tabs"
)

func restoreFixture(t *testing.T, links []domain.Link, settings *domain.Settings, open ...domain.Tab) (*Reconciler, *memory.Store, *tabs.MemoryProvider) {
	t.Helper()
	s := memory.NewStore()
	ctx := context.Background()
	if err := s.SaveLinks(ctx, links); err != nil {
		t.Fatal(err)
	}
	if settings != nil {
		if err := s.SaveSettings(ctx, *settings); err != nil {
			t.Fatal(err)
		}
	}
	provider := tabs.NewMemoryProvider(open...)
	log := logger.New("error", false)
	r := NewReconciler(s, provider, log).WithClock(func() time.Time { return testTime })
	return r, s, provider
}

func twoWindowSession() []domain.Link {
	return []domain.Link{
		{URL: "https://a.example/", UniqueID: "u1", SessionID: "s1", SessionLabel: "Work", WindowID: 10, Timestamp: "2026-08-01T10:00:00Z"},
		{URL: "https://b.example/", UniqueID: "u2", SessionID: "s1", SessionLabel: "Work", WindowID: 10, Timestamp: "2026-08-01T10:00:00Z"},
		{URL: "https://c.example/", UniqueID: "u3", SessionID: "s1", SessionLabel: "Work", WindowID: 20, Timestamp: "2026-08-01T10:00:00Z"},
	}
}

func TestRestoreAdditiveOpensEveryLink(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()
	settings.RestoreWindowStructure = false
	r, s, provider := restoreFixture(t, twoWindowSession(), &settings)

	res, err := r.Restore(ctx, "s1", RestoreAdditive)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if res.TabsOpened != 3 || res.TabsClosed != 0 || res.WindowCount != 1 {
		t.Errorf("result = %+v, want 3 opened in one window, none closed", res)
	}

	open, _ := provider.Tabs(ctx)
	if len(open) != 3 {
		t.Fatalf("provider holds %d tabs, want 3", len(open))
	}

	// Additive without deleteAfterRestore leaves the log intact.
	links, _ := s.Links(ctx)
	if len(links) != 3 {
		t.Errorf("log has %d links, want 3 untouched", len(links))
	}
}

func TestRestoreWindowStructure(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()
	settings.RestoreWindowStructure = true
	r, _, provider := restoreFixture(t, twoWindowSession(), &settings)

	res, err := r.Restore(ctx, "s1", RestoreAdditive)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if res.WindowCount != 2 {
		t.Errorf("WindowCount = %d, want 2", res.WindowCount)
	}
	if res.TabsOpened != 3 {
		t.Errorf("TabsOpened = %d, want 3", res.TabsOpened)
	}

	windows := provider.WindowIDs()
	if len(windows) != 2 {
		t.Errorf("provider has %d windows, want 2: %v", len(windows), windows)
	}

	// a and b must land together, c alone.
	open, _ := provider.Tabs(ctx)
	byURL := make(map[string]int)
	for _, tab := range open {
		byURL[tab.URL] = tab.WindowID
	}
	if byURL["https://a.example/"] != byURL["https://b.example/"] {
		t.Error("links from the same recorded window must share a window")
	}
	if byURL["https://c.example/"] == byURL["https://a.example/"] {
		t.Error("links from distinct recorded windows must not share a window")
	}
}

func TestRestoreReplaceClosesPriorTabsOnly(t *testing.T) {
	ctx := context.Background()
	prior := []domain.Tab{
		{ID: 1, URL: "https://old.example/one", WindowID: 1, Active: true},
		{ID: 2, URL: "https://old.example/two", WindowID: 1},
	}
	r, s, provider := restoreFixture(t, twoWindowSession(), nil, prior...)

	res, err := r.Restore(ctx, "s1", RestoreReplace)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if res.TabsOpened != 3 || res.TabsClosed != 2 {
		t.Errorf("result = %+v, want 3 opened and 2 closed", res)
	}

	open, _ := provider.Tabs(ctx)
	if len(open) != 3 {
		t.Fatalf("provider holds %d tabs, want only the restored 3", len(open))
	}
	for _, tab := range open {
		if tab.URL == "https://old.example/one" || tab.URL == "https://old.example/two" {
			t.Errorf("prior tab %s survived replace", tab.URL)
		}
	}

	// Replace never deletes the archived session.
	links, _ := s.Links(ctx)
	if len(links) != 3 {
		t.Errorf("log has %d links, want 3", len(links))
	}
	if res.Deleted {
		t.Error("replace must not report a deletion")
	}
}

func TestRestoreDeleteAfterRestore(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()
	settings.DeleteAfterRestore = true
	settings.RestoreWindowStructure = false
	r, s, _ := restoreFixture(t, twoWindowSession(), &settings)

	res, err := r.Restore(ctx, "s1", RestoreAdditive)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if !res.Deleted {
		t.Error("deleteAfterRestore must report the deletion")
	}

	links, _ := s.Links(ctx)
	if len(links) != 0 {
		t.Errorf("log has %d links, want session removed", len(links))
	}
}

func TestRestoreUnknownSession(t *testing.T) {
	ctx := context.Background()
	r, _, _ := restoreFixture(t, twoWindowSession(), nil)
	if _, err := r.Restore(ctx, "missing", RestoreAdditive); err == nil {
		t.Error("Restore() of unknown session should fail")
	}
}
