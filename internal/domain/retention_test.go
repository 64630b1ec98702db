package domain

import "testing"

func makeTabs(urls ...string) []Tab {
	tabs := make([]Tab, len(urls))
	for i, u := range urls {
		tabs[i] = Tab{ID: i + 1, URL: u, WindowID: 1}
	}
	return tabs
}

func TestCloseCandidatesCounts(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		keep    int
		current bool
		want    int
	}{
		{name: "current keeps last N", length: 5, keep: 3, current: true, want: 2},
		{name: "current shorter than N", length: 2, keep: 3, current: true, want: 0},
		{name: "current exact N", length: 3, keep: 3, current: true, want: 0},
		{name: "current keep zero sweeps all", length: 4, keep: 0, current: true, want: 4},
		{name: "non-current sweeps all", length: 5, keep: 3, current: false, want: 5},
		{name: "non-current empty", length: 0, keep: 3, current: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tabs := make([]Tab, tt.length)
			for i := range tabs {
				tabs[i] = Tab{ID: i, URL: "https://example.com/p", WindowID: 1}
			}
			got := CloseCandidates(tabs, tt.current, tt.keep, nil)
			if len(got) != tt.want {
				t.Errorf("CloseCandidates() returned %d candidates, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCloseCandidatesPositionOrder(t *testing.T) {
	tabs := makeTabs(
		"https://a.example/",
		"https://b.example/",
		"https://c.example/",
		"https://d.example/",
		"https://e.example/",
	)

	got := CloseCandidates(tabs, true, 3, nil)
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if got[0].URL != "https://a.example/" || got[1].URL != "https://b.example/" {
		t.Errorf("candidates = [%s, %s], want the two oldest by position", got[0].URL, got[1].URL)
	}
}

func TestCloseCandidatesWhitelist(t *testing.T) {
	tabs := makeTabs(
		"https://a.example/",
		"https://b.example/",
		"https://c.example/",
		"https://d.example/",
		"https://e.example/",
	)

	got := CloseCandidates(tabs, true, 3, []string{"b.example"})
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	if got[0].URL != "https://a.example/" {
		t.Errorf("surviving candidate = %s, want https://a.example/", got[0].URL)
	}
}

func TestIsWhitelistedSubdomainClosure(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		whitelist []string
		want      bool
	}{
		{name: "exact match", url: "https://google.com/", whitelist: []string{"google.com"}, want: true},
		{name: "subdomain match", url: "https://mail.google.com/", whitelist: []string{"google.com"}, want: true},
		{name: "deep subdomain match", url: "https://a.b.google.com/", whitelist: []string{"google.com"}, want: true},
		{name: "suffix is not subdomain", url: "https://notgoogle.com/", whitelist: []string{"google.com"}, want: false},
		{name: "entry matches itself", url: "https://mail.google.com/", whitelist: []string{"mail.google.com"}, want: true},
		{name: "parent not protected by child entry", url: "https://google.com/", whitelist: []string{"mail.google.com"}, want: false},
		{name: "unparseable url never protected", url: "://bad", whitelist: []string{"google.com"}, want: false},
		{name: "empty whitelist", url: "https://google.com/", whitelist: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWhitelisted(tt.url, tt.whitelist); got != tt.want {
				t.Errorf("IsWhitelisted(%q, %v) = %v, want %v", tt.url, tt.whitelist, got, tt.want)
			}
		})
	}
}

func TestBackgroundCandidatesHardProtections(t *testing.T) {
	tabs := []Tab{
		{ID: 1, URL: "https://a.example/", WindowID: 1, Pinned: true},
		{ID: 2, URL: "https://b.example/", WindowID: 1},
		{ID: 3, URL: "https://c.example/", WindowID: 1, Active: true},
		{ID: 4, URL: "https://d.example/", WindowID: 1},
	}

	got := BackgroundCandidates(tabs, 0, nil, ActiveTabIDs(tabs))
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Pinned || c.Active {
			t.Errorf("tab %d should have been protected", c.ID)
		}
	}
}

func TestIsSystemURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"chrome://settings", true},
		{"edge://flags", true},
		{"opera://about", true},
		{"vivaldi://startpage", true},
		{"brave://rewards", true},
		{"about:blank", true},
		{"chrome-extension://abc/popup.html", true},
		{"", true},
		{"https://example.com/", false},
		{"http://chrome.example.com/", false},
	}

	for _, tt := range tests {
		if got := IsSystemURL(tt.url, ""); got != tt.want {
			t.Errorf("IsSystemURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestIsSystemURLOwnPages(t *testing.T) {
	own := "http://localhost:8080/dashboard"
	if !IsSystemURL("http://localhost:8080/dashboard?tab=sessions", own) {
		t.Error("own dashboard URL should be treated as system")
	}
	if IsSystemURL("http://localhost:9000/dashboard", own) {
		t.Error("unrelated URL should not be treated as system")
	}
}
