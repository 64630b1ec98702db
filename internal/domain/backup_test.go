package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestBackupLabel(t *testing.T) {
	tests := []struct {
		name  string
		links []Link
		want  string
	}{
		{
			name:  "empty clean",
			links: nil,
			want:  "Empty Clean",
		},
		{
			name:  "single domain",
			links: []Link{{URL: "https://github.com/a"}},
			want:  "Github.com",
		},
		{
			name: "three domains",
			links: []Link{
				{URL: "https://github.com/a"},
				{URL: "https://reddit.com/b"},
				{URL: "https://wikipedia.org/c"},
			},
			want: "Github.com, Reddit.com, Wikipedia.org",
		},
		{
			name: "overflow suffix counts links beyond the named domains",
			links: []Link{
				{URL: "https://github.com/a"},
				{URL: "https://reddit.com/b"},
				{URL: "https://wikipedia.org/c"},
				{URL: "https://news.example/d"},
				{URL: "https://blog.example/e"},
			},
			want: "Github.com, Reddit.com, Wikipedia.org (+2)",
		},
		{
			name: "duplicate domains collapse",
			links: []Link{
				{URL: "https://github.com/a"},
				{URL: "https://github.com/b"},
			},
			want: "Github.com",
		},
		{
			name: "www is stripped but subdomains are kept",
			links: []Link{
				{URL: "https://www.github.com/a"},
				{URL: "https://mail.google.com/b"},
			},
			want: "Github.com, Mail.google.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BackupLabel(tt.links); got != tt.want {
				t.Errorf("BackupLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewBackup(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	links := []Link{{URL: "https://github.com/a"}}

	b := NewBackup("b-1", links, 3, now)

	if b.Count != 1 {
		t.Errorf("Count = %d, want 1", b.Count)
	}
	if b.TabsClosed != 3 || b.Data.TabsClosed != 3 {
		t.Errorf("TabsClosed = %d/%d, want 3/3", b.TabsClosed, b.Data.TabsClosed)
	}
	if b.Data.Version != BackupVersion {
		t.Errorf("Data.Version = %q, want %q", b.Data.Version, BackupVersion)
	}
	if b.Data.Created != "2026-08-30T14:05:00Z" {
		t.Errorf("Data.Created = %q", b.Data.Created)
	}
}

func TestTrimBackups(t *testing.T) {
	backups := make([]Backup, 0, MaxBackups+1)
	for i := 0; i < MaxBackups+1; i++ {
		backups = append(backups, Backup{ID: fmt.Sprintf("b-%d", i)})
	}

	trimmed := TrimBackups(backups)
	if len(trimmed) != MaxBackups {
		t.Fatalf("TrimBackups() = %d entries, want %d", len(trimmed), MaxBackups)
	}
	if trimmed[0].ID != "b-1" {
		t.Errorf("oldest entry must be evicted first, front is %s", trimmed[0].ID)
	}
	if trimmed[len(trimmed)-1].ID != fmt.Sprintf("b-%d", MaxBackups) {
		t.Errorf("newest entry must survive, back is %s", trimmed[len(trimmed)-1].ID)
	}
}

func TestTrimBackupsUnderCap(t *testing.T) {
	backups := []Backup{{ID: "a"}, {ID: "b"}}
	if got := TrimBackups(backups); len(got) != 2 {
		t.Errorf("TrimBackups() under cap = %d entries, want 2", len(got))
	}
}
