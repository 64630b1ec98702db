package domain

import "github.com/goccy/go-json"

// Settings is the single persisted configuration record.
// Missing keys are always defaulted at read time so the record is never
// partially absent from the caller's point of view.
type Settings struct {
	KeepLastTabs             int  `json:"keepLastTabs"`
	AutoBackup               bool `json:"autoBackup"`
	ConfirmBeforeClose       bool `json:"confirmBeforeClose"`
	CleanAllWorkspaces       bool `json:"cleanAllWorkspaces"`
	DeleteAfterRestore       bool `json:"deleteAfterRestore"`
	SessionsDefaultCollapsed bool `json:"sessionsDefaultCollapsed"`
	RestoreWindowStructure   bool `json:"restoreWindowStructure"`
	SmartImport              bool `json:"smartImport"`
}

const (
	MinKeepLastTabs = 1
	MaxKeepLastTabs = 20
)

// DefaultSettings returns the first-run configuration.
func DefaultSettings() Settings {
	return Settings{
		KeepLastTabs:             3,
		AutoBackup:               true,
		ConfirmBeforeClose:       true,
		CleanAllWorkspaces:       false,
		DeleteAfterRestore:       false,
		SessionsDefaultCollapsed: false,
		RestoreWindowStructure:   true,
		SmartImport:              true,
	}
}

// Normalize clamps out-of-range values back into the supported range.
func (s Settings) Normalize() Settings {
	if s.KeepLastTabs < MinKeepLastTabs {
		s.KeepLastTabs = MinKeepLastTabs
	}
	if s.KeepLastTabs > MaxKeepLastTabs {
		s.KeepLastTabs = MaxKeepLastTabs
	}
	return s
}

// UnmarshalJSON fills absent keys with defaults so legacy records that
// predate a setting still read as fully populated.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type alias struct {
		KeepLastTabs             *int  `json:"keepLastTabs"`
		AutoBackup               *bool `json:"autoBackup"`
		ConfirmBeforeClose       *bool `json:"confirmBeforeClose"`
		CleanAllWorkspaces       *bool `json:"cleanAllWorkspaces"`
		DeleteAfterRestore       *bool `json:"deleteAfterRestore"`
		SessionsDefaultCollapsed *bool `json:"sessionsDefaultCollapsed"`
		RestoreWindowStructure   *bool `json:"restoreWindowStructure"`
		SmartImport              *bool `json:"smartImport"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	def := DefaultSettings()
	*s = def
	if a.KeepLastTabs != nil {
		s.KeepLastTabs = *a.KeepLastTabs
	}
	if a.AutoBackup != nil {
		s.AutoBackup = *a.AutoBackup
	}
	if a.ConfirmBeforeClose != nil {
		s.ConfirmBeforeClose = *a.ConfirmBeforeClose
	}
	if a.CleanAllWorkspaces != nil {
		s.CleanAllWorkspaces = *a.CleanAllWorkspaces
	}
	if a.DeleteAfterRestore != nil {
		s.DeleteAfterRestore = *a.DeleteAfterRestore
	}
	if a.SessionsDefaultCollapsed != nil {
		s.SessionsDefaultCollapsed = *a.SessionsDefaultCollapsed
	}
	if a.RestoreWindowStructure != nil {
		s.RestoreWindowStructure = *a.RestoreWindowStructure
	}
	if a.SmartImport != nil {
		s.SmartImport = *a.SmartImport
	}
	*s = s.Normalize()
	return nil
}
