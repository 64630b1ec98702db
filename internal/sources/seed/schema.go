package seed

// File is the top-level structure of seed.yaml. Every field is optional;
// absent sections fall back to built-in defaults.
type File struct {
	Settings  *SettingsProps `yaml:"settings,omitempty"`
	Whitelist []string       `yaml:"whitelist,omitempty"`
}

// SettingsProps mirrors the persisted settings record. Pointers distinguish
// "absent" from explicit false/zero.
type SettingsProps struct {
	KeepLastTabs             *int  `yaml:"keepLastTabs,omitempty"`
	AutoBackup               *bool `yaml:"autoBackup,omitempty"`
	ConfirmBeforeClose       *bool `yaml:"confirmBeforeClose,omitempty"`
	CleanAllWorkspaces       *bool `yaml:"cleanAllWorkspaces,omitempty"`
	DeleteAfterRestore       *bool `yaml:"deleteAfterRestore,omitempty"`
	SessionsDefaultCollapsed *bool `yaml:"sessionsDefaultCollapsed,omitempty"`
	RestoreWindowStructure   *bool `yaml:"restoreWindowStructure,omitempty"`
	SmartImport              *bool `yaml:"smartImport,omitempty"`
}
