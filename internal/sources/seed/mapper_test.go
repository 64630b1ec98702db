package seed

import (
	"testing"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestMapSettingsNilFile(t *testing.T) {
	m := NewMapper()
	got := m.MapSettings(nil)
	if got != domain.DefaultSettings() {
		t.Errorf("MapSettings(nil) = %+v, want defaults", got)
	}
}

func TestMapSettingsMergesOverDefaults(t *testing.T) {
	m := NewMapper()
	f := &File{Settings: &SettingsProps{
		KeepLastTabs: intPtr(5),
		AutoBackup:   boolPtr(false),
	}}

	got := m.MapSettings(f)
	if got.KeepLastTabs != 5 {
		t.Errorf("KeepLastTabs = %d, want 5", got.KeepLastTabs)
	}
	if got.AutoBackup {
		t.Error("AutoBackup should be false")
	}
	if !got.ConfirmBeforeClose {
		t.Error("untouched keys must keep their defaults")
	}
}

func TestMapSettingsClampsKeepLastTabs(t *testing.T) {
	m := NewMapper()
	f := &File{Settings: &SettingsProps{KeepLastTabs: intPtr(100)}}

	if got := m.MapSettings(f); got.KeepLastTabs != domain.MaxKeepLastTabs {
		t.Errorf("KeepLastTabs = %d, want clamped to %d", got.KeepLastTabs, domain.MaxKeepLastTabs)
	}
}

func TestMapWhitelist(t *testing.T) {
	tests := []struct {
		name string
		file *File
		want []string
	}{
		{
			name: "nil file falls back to defaults",
			file: nil,
			want: []string{"gmail.com", "docs.google.com"},
		},
		{
			name: "entries are normalized and deduplicated",
			file: &File{Whitelist: []string{"https://www.Example.com/path", "example.com", "bad"}},
			want: []string{"example.com"},
		},
		{
			name: "empty list falls back to defaults",
			file: &File{Whitelist: []string{}},
			want: []string{"gmail.com", "docs.google.com"},
		},
	}

	m := NewMapper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.MapWhitelist(tt.file)
			if len(got) != len(tt.want) {
				t.Fatalf("MapWhitelist() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MapWhitelist()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
