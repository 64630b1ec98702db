package seed

import (
	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// DefaultWhitelist seeds a fresh install when no seed file overrides it.
var DefaultWhitelist = []string{"gmail.com", "docs.google.com"}

// Mapper converts a seed file into domain settings and whitelist entries.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapSettings merges the seed's settings over the built-in defaults.
func (m *Mapper) MapSettings(f *File) domain.Settings {
	s := domain.DefaultSettings()
	if f == nil || f.Settings == nil {
		return s
	}

	p := f.Settings
	if p.KeepLastTabs != nil {
		s.KeepLastTabs = *p.KeepLastTabs
	}
	if p.AutoBackup != nil {
		s.AutoBackup = *p.AutoBackup
	}
	if p.ConfirmBeforeClose != nil {
		s.ConfirmBeforeClose = *p.ConfirmBeforeClose
	}
	if p.CleanAllWorkspaces != nil {
		s.CleanAllWorkspaces = *p.CleanAllWorkspaces
	}
	if p.DeleteAfterRestore != nil {
		s.DeleteAfterRestore = *p.DeleteAfterRestore
	}
	if p.SessionsDefaultCollapsed != nil {
		s.SessionsDefaultCollapsed = *p.SessionsDefaultCollapsed
	}
	if p.RestoreWindowStructure != nil {
		s.RestoreWindowStructure = *p.RestoreWindowStructure
	}
	if p.SmartImport != nil {
		s.SmartImport = *p.SmartImport
	}
	return s.Normalize()
}

// MapWhitelist normalizes the seed's whitelist, dropping invalid entries and
// duplicates. An empty or absent list falls back to DefaultWhitelist.
func (m *Mapper) MapWhitelist(f *File) []string {
	raw := DefaultWhitelist
	if f != nil && len(f.Whitelist) > 0 {
		raw = f.Whitelist
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		d, err := domain.NormalizeDomain(entry)
		if err != nil || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
