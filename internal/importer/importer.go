package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

// Payload is the parsed form of an externally supplied import file.
// Settings and Whitelist are only present when the file is a full export.
type Payload struct {
	Links     []domain.Link
	Settings  *domain.Settings
	Whitelist []string
}

// Analysis partitions import candidates against the current log.
type Analysis struct {
	Clean               []domain.Link `json:"clean"`
	Duplicates          []domain.Link `json:"duplicates"`
	HasSessionStructure bool          `json:"hasSessionStructure"`
}

// ApplyOptions drives the merge decision after analysis.
type ApplyOptions struct {
	// PreserveStructure keeps the candidates' own session grouping,
	// remapping every incoming sessionId so imported sessions can never
	// silently merge into pre-existing ones.
	PreserveStructure bool
	// IncludeDuplicates imports the duplicate partition too.
	IncludeDuplicates bool
}

// ApplyResult reports what an import wrote.
type ApplyResult struct {
	Imported          int `json:"imported"`
	DuplicatesSkipped int `json:"duplicatesSkipped"`
	Sessions          int `json:"sessions"`
}

// Service reconciles external link sets into the persisted log.
type Service struct {
	store  store.Store
	logger logger.Logger
	now    func() time.Time
}

func NewService(s store.Store, log logger.Logger) *Service {
	return &Service{store: s, logger: log, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type envelope struct {
	Links      []domain.Link    `json:"links"`
	SavedLinks []domain.Link    `json:"savedLinks"`
	Settings   *domain.Settings `json:"settings"`
	Whitelist  []string         `json:"whitelist"`
}

// ParsePayload accepts {links:[...]}, {savedLinks:[...]} or a bare array.
// Entries without a url are dropped; an empty result is an error.
func ParsePayload(data []byte) (Payload, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		candidates := env.Links
		if len(candidates) == 0 {
			candidates = env.SavedLinks
		}
		if valid := keepValid(candidates); len(valid) > 0 {
			return Payload{Links: valid, Settings: env.Settings, Whitelist: env.Whitelist}, nil
		}
	}

	var bare []domain.Link
	if err := json.Unmarshal(data, &bare); err == nil {
		if valid := keepValid(bare); len(valid) > 0 {
			return Payload{Links: valid}, nil
		}
	}

	return Payload{}, fmt.Errorf("no valid links found")
}

func keepValid(links []domain.Link) []domain.Link {
	valid := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if l.URL != "" {
			valid = append(valid, l)
		}
	}
	return valid
}

// Analyze splits candidates into clean and duplicate against the current
// log, and detects whether the batch carries its own session structure.
func (s *Service) Analyze(ctx context.Context, candidates []domain.Link) (Analysis, error) {
	existing, err := s.store.Links(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to read links: %w", err)
	}

	seen := domain.SignatureSet(existing)
	a := Analysis{HasSessionStructure: len(candidates) > 0}
	for _, c := range candidates {
		if seen[c.Signature()] {
			a.Duplicates = append(a.Duplicates, c)
		} else {
			a.Clean = append(a.Clean, c)
		}
		if c.SessionID == "" || c.SessionLabel == "" {
			a.HasSessionStructure = false
		}
	}
	return a, nil
}

// Apply merges accepted candidates into a freshly re-read log with one
// write. Structure-preserving mode remaps each incoming sessionId to a
// suffixed identifier, stable within the batch. Flat mode collapses the
// batch into one new session, keeping each link's original timestamp
// under originalTimestamp.
func (s *Service) Apply(ctx context.Context, candidates []domain.Link, opts ApplyOptions) (ApplyResult, error) {
	analysis, err := s.Analyze(ctx, candidates)
	if err != nil {
		return ApplyResult{}, err
	}

	accepted := analysis.Clean
	result := ApplyResult{DuplicatesSkipped: len(analysis.Duplicates)}
	if opts.IncludeDuplicates {
		accepted = append(accepted, analysis.Duplicates...)
		result.DuplicatesSkipped = 0
	}
	if len(accepted) == 0 {
		return result, nil
	}

	now := s.now()
	importedAt := domain.FormatTimestamp(now)
	epoch := now.UnixMilli()

	var prepared []domain.Link
	if opts.PreserveStructure && analysis.HasSessionStructure {
		remap := make(map[string]string)
		for _, l := range accepted {
			newID, ok := remap[l.SessionID]
			if !ok {
				newID = fmt.Sprintf("%s-imported-%d", l.SessionID, epoch)
				remap[l.SessionID] = newID
			}
			l.SessionID = newID
			l.UniqueID = uuid.NewString()
			l.ImportedAt = importedAt
			if l.DateGroup == "" {
				l.DateGroup = domain.FormatDateGroup(now)
			}
			prepared = append(prepared, l)
		}
		result.Sessions = len(remap)
	} else {
		sessionID := fmt.Sprintf("imported-%d", epoch)
		label := fmt.Sprintf("%s - Imported Backup", domain.FormatTimeLabel(now))
		for _, l := range accepted {
			if l.OriginalTimestamp == "" {
				l.OriginalTimestamp = l.Timestamp
			}
			l.SessionID = sessionID
			l.SessionLabel = label
			l.IsPinned = false
			l.Timestamp = importedAt
			l.DateGroup = domain.FormatDateGroup(now)
			l.UniqueID = uuid.NewString()
			l.ImportedAt = importedAt
			prepared = append(prepared, l)
		}
		result.Sessions = 1
	}
	result.Imported = len(prepared)

	// Fresh re-read right before the single write.
	current, err := s.store.Links(ctx)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to re-read links: %w", err)
	}
	merged := append(prepared, current...)
	if err := s.store.SaveLinks(ctx, merged); err != nil {
		return ApplyResult{}, fmt.Errorf("failed to save links: %w", err)
	}

	s.logger.Info("import applied",
		logger.Int("imported", result.Imported),
		logger.Int("sessions", result.Sessions),
		logger.Int("duplicatesSkipped", result.DuplicatesSkipped))
	return result, nil
}

// Import is the one-shot path: parse, analyze and apply with the stored
// settings deciding for the user. smartImport skips duplicates; session
// structure is preserved whenever the batch carries one.
func (s *Service) Import(ctx context.Context, data []byte) (ApplyResult, error) {
	payload, err := ParsePayload(data)
	if err != nil {
		return ApplyResult{}, err
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to read settings: %w", err)
	}

	analysis, err := s.Analyze(ctx, payload.Links)
	if err != nil {
		return ApplyResult{}, err
	}
	return s.Apply(ctx, payload.Links, ApplyOptions{
		PreserveStructure: analysis.HasSessionStructure,
		IncludeDuplicates: !settings.SmartImport,
	})
}

// ApplyConfig restores the settings and whitelist carried by a full
// export, when present. Links are handled separately through Apply.
func (s *Service) ApplyConfig(ctx context.Context, p Payload) error {
	if p.Settings != nil {
		if err := s.store.SaveSettings(ctx, p.Settings.Normalize()); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	if len(p.Whitelist) > 0 {
		normalized := make([]string, 0, len(p.Whitelist))
		seen := make(map[string]bool)
		for _, d := range p.Whitelist {
			n, err := domain.NormalizeDomain(d)
			if err != nil || seen[n] {
				continue
			}
			seen[n] = true
			normalized = append(normalized, n)
		}
		if err := s.store.SaveWhitelist(ctx, normalized); err != nil {
			return fmt.Errorf("failed to save whitelist: %w", err)
		}
	}
	return nil
}
