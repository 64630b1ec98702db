package capture

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store/memory"
)

var testTime = time.Date(2026, 8, 30, 11, 15, 0, 0, time.UTC)

type staticTitler struct{ title string }

func (s staticTitler) Title(ctx context.Context, rawURL string) string {
	if s.title == "" {
		return rawURL
	}
	return s.title
}

func testService(t *testing.T, initial []domain.Link, title string) (*Service, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	if err := s.SaveLinks(context.Background(), initial); err != nil {
		t.Fatal(err)
	}
	log := logger.New("error", false)
	svc := NewService(s, staticTitler{title: title}, log).WithClock(func() time.Time { return testTime })
	return svc, s
}

func TestQuickSaveMintsDailySession(t *testing.T) {
	ctx := context.Background()
	svc, s := testService(t, nil, "Example Page")

	link, err := svc.QuickSave(ctx, "https://mail.google.com/inbox", "")
	if err != nil {
		t.Fatalf("QuickSave() error: %v", err)
	}
	if link.SessionID != "manual-save-2026-08-30" {
		t.Errorf("sessionId = %q", link.SessionID)
	}
	if link.SessionLabel != "Quick Saves - August 30, 2026" {
		t.Errorf("sessionLabel = %q", link.SessionLabel)
	}
	if link.Title != "Example Page" {
		t.Errorf("title = %q, want the fetched title", link.Title)
	}
	if link.Category != "Google" {
		t.Errorf("category = %q, want Google", link.Category)
	}
	if link.UniqueID == "" {
		t.Error("captured link must get a uniqueId")
	}

	links, _ := s.Links(ctx)
	if len(links) != 1 {
		t.Fatalf("log has %d links, want 1", len(links))
	}
}

func TestQuickSaveReusesPureSession(t *testing.T) {
	ctx := context.Background()
	svc, s := testService(t, nil, "")

	first, err := svc.QuickSave(ctx, "https://a.example/", "A")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.QuickSave(ctx, "https://b.example/", "B")
	if err != nil {
		t.Fatal(err)
	}
	if first.SessionID != second.SessionID {
		t.Errorf("pure quick-save session must be reused: %q vs %q", first.SessionID, second.SessionID)
	}

	links, _ := s.Links(ctx)
	if links[0].URL != "https://b.example/" {
		t.Error("newest capture must be prepended")
	}
}

func TestQuickSaveSkipsCuratedSession(t *testing.T) {
	ctx := context.Background()
	// Today's quick-save session was renamed by the user.
	initial := []domain.Link{
		{URL: "https://a.example/", UniqueID: "u1", SessionID: "manual-save-2026-08-30", SessionLabel: "My Reading List", Timestamp: "2026-08-30T09:00:00Z"},
	}
	svc, _ := testService(t, initial, "")

	link, err := svc.QuickSave(ctx, "https://b.example/", "B")
	if err != nil {
		t.Fatalf("QuickSave() error: %v", err)
	}
	if link.SessionID != "manual-save-2026-08-30-1" {
		t.Errorf("sessionId = %q, want a fresh suffixed session", link.SessionID)
	}
	if !strings.HasPrefix(link.SessionLabel, "Quick Saves") {
		t.Errorf("sessionLabel = %q", link.SessionLabel)
	}
}

func TestQuickSaveSkipsPinnedSession(t *testing.T) {
	ctx := context.Background()
	initial := []domain.Link{
		{URL: "https://a.example/", UniqueID: "u1", SessionID: "manual-save-2026-08-30", SessionLabel: "Quick Saves - August 30, 2026", IsPinned: true},
	}
	svc, _ := testService(t, initial, "")

	link, err := svc.QuickSave(ctx, "https://b.example/", "B")
	if err != nil {
		t.Fatalf("QuickSave() error: %v", err)
	}
	if link.SessionID == "manual-save-2026-08-30" {
		t.Error("pinned quick-save session must not be reused")
	}
}

func TestNewSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, nil, "")

	link, err := svc.NewSession(ctx, "https://a.example/", "A")
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if !strings.HasPrefix(link.SessionID, "manual-session-") {
		t.Errorf("sessionId = %q", link.SessionID)
	}
	if link.SessionLabel != "11:15 - New Session" {
		t.Errorf("sessionLabel = %q", link.SessionLabel)
	}
}

func TestAddToSessionAdoptsSessionFields(t *testing.T) {
	ctx := context.Background()
	initial := []domain.Link{
		{URL: "https://a.example/", UniqueID: "u1", SessionID: "s1", SessionLabel: "Work", IsPinned: true, DateGroup: "August 1, 2026", Timestamp: "2026-08-01T10:00:00Z"},
	}
	svc, s := testService(t, initial, "")

	link, err := svc.AddToSession(ctx, "https://b.example/", "B", "s1")
	if err != nil {
		t.Fatalf("AddToSession() error: %v", err)
	}
	if link.SessionID != "s1" || link.SessionLabel != "Work" || !link.IsPinned {
		t.Errorf("link must adopt the target session, got %+v", link)
	}
	if link.DateGroup != "August 1, 2026" {
		t.Errorf("dateGroup = %q, want the session's group", link.DateGroup)
	}

	links, _ := s.Links(ctx)
	if len(links) != 2 || links[0].URL != "https://b.example/" {
		t.Errorf("log = %+v, want new link prepended", links)
	}
}

func TestAddToSessionUnknown(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, nil, "")
	if _, err := svc.AddToSession(ctx, "https://a.example/", "", "missing"); err == nil {
		t.Error("AddToSession() to unknown session should fail")
	}
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, nil, "")

	link, err := svc.CreateSession(ctx, "Research", "https://a.example/", "A")
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	if link.SessionLabel != "Research" {
		t.Errorf("sessionLabel = %q", link.SessionLabel)
	}
	if !strings.HasPrefix(link.SessionID, "manual-") {
		t.Errorf("sessionId = %q", link.SessionID)
	}

	if _, err := svc.CreateSession(ctx, "", "https://a.example/", ""); err == nil {
		t.Error("CreateSession() without a name should fail")
	}
}

func TestTitleFallsBackToFetcher(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, nil, "Fetched Title")

	link, err := svc.NewSession(ctx, "https://a.example/", "")
	if err != nil {
		t.Fatal(err)
	}
	if link.Title != "Fetched Title" {
		t.Errorf("title = %q, want fetcher result", link.Title)
	}

	link, err = svc.NewSession(ctx, "https://a.example/", "Explicit")
	if err != nil {
		t.Fatal(err)
	}
	if link.Title != "Explicit" {
		t.Errorf("title = %q, explicit title must win", link.Title)
	}
}

func TestAddWhitelist(t *testing.T) {
	ctx := context.Background()
	svc, s := testService(t, nil, "")

	got, err := svc.AddWhitelist(ctx, "https://www.Gmail.com/inbox")
	if err != nil {
		t.Fatalf("AddWhitelist() error: %v", err)
	}
	if got != "gmail.com" {
		t.Errorf("normalized = %q, want gmail.com", got)
	}

	if _, err := svc.AddWhitelist(ctx, "gmail.com"); err == nil {
		t.Error("duplicate whitelist add should fail")
	}
	if _, err := svc.AddWhitelist(ctx, "nodot"); err == nil {
		t.Error("domain without a dot should fail")
	}

	wl, _ := s.Whitelist(ctx)
	if len(wl) != 1 {
		t.Errorf("whitelist = %v, want single entry", wl)
	}
}

func TestRemoveWhitelist(t *testing.T) {
	ctx := context.Background()
	svc, s := testService(t, nil, "")
	if err := s.SaveWhitelist(ctx, []string{"gmail.com", "docs.google.com"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveWhitelist(ctx, "gmail.com"); err != nil {
		t.Fatalf("RemoveWhitelist() error: %v", err)
	}
	wl, _ := s.Whitelist(ctx)
	if len(wl) != 1 || wl[0] != "docs.google.com" {
		t.Errorf("whitelist = %v", wl)
	}

	if err := svc.RemoveWhitelist(ctx, "gmail.com"); err == nil {
		t.Error("removing an absent domain should fail")
	}
}
