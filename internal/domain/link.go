package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Link is one archived browser tab.
// Timestamps are stored as RFC3339 strings so imported records keep their
// original values byte-for-byte (the dedup signature depends on it).
type Link struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// URL is the archived tab URL. Required.
	URL string `json:"url"`

	// UniqueID identifies this specific record (selection, move, delete).
	// Backfilled lazily on legacy data that predates it.
	UniqueID string `json:"uniqueId,omitempty"`

	// ─────────────────────────────
	// Display
	// ─────────────────────────────

	Title   string `json:"title,omitempty"`
	Favicon string `json:"favicon,omitempty"`

	// Category is derived from the domain at archive time, user-editable after.
	Category string `json:"category,omitempty"`

	// ─────────────────────────────
	// Position in time
	// ─────────────────────────────

	// Timestamp is the record's current position-determining instant.
	// Mutable: "bump" rewrites it to now.
	Timestamp string `json:"timestamp"`

	// OriginalTimestamp survives restore/import re-timestamping so
	// provenance (and the dedup signature) is preserved.
	OriginalTimestamp string `json:"originalTimestamp,omitempty"`

	// DateGroup is a human date derived from Timestamp, kept in sync with it.
	DateGroup string `json:"dateGroup,omitempty"`

	// ─────────────────────────────
	// Source context (archive time only, not required at rest)
	// ─────────────────────────────

	WindowID    int    `json:"windowId,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`

	// ─────────────────────────────
	// Session membership
	// ─────────────────────────────

	// SessionID groups links into a session. Synthetic, unique per creation
	// event, prefixed by creation reason (clean-, manual-save-, imported-, ...).
	SessionID string `json:"sessionId,omitempty"`

	// SessionLabel is shared by every link in the session.
	SessionLabel string `json:"sessionLabel,omitempty"`

	// IsPinned is a session-level property duplicated onto every member.
	// All links sharing a SessionID must carry the same value.
	IsPinned bool `json:"isPinned,omitempty"`

	// ImportedAt / RestoredAt mark provenance of merged records.
	ImportedAt string `json:"importedAt,omitempty"`
	RestoredAt string `json:"restoredAt,omitempty"`
}

// GroupingKey returns the key that defines session membership.
// The fallback exists only for pre-migration records lacking a sessionId.
func (l Link) GroupingKey() string {
	if l.SessionID != "" {
		return l.SessionID
	}
	return l.DateGroup + "-" + l.Timestamp
}

// Signature is the duplicate-detection identity: same url archived at the
// same original instant means the same link, however many times it was
// re-imported or restored since.
func (l Link) Signature() string {
	ts := l.OriginalTimestamp
	if ts == "" {
		ts = l.Timestamp
	}
	return l.URL + "|" + ts
}

// TimestampTime parses the link's timestamp, zero time on failure.
func (l Link) TimestampTime() time.Time {
	t, err := time.Parse(time.RFC3339, l.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Hostname returns the link's hostname, empty on parse failure.
func (l Link) Hostname() string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// FormatTimestamp renders an instant the way links store it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatDateGroup renders the human date bucket derived from a timestamp.
func FormatDateGroup(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatTimeLabel renders the short time used in session labels ("14:05").
func FormatTimeLabel(t time.Time) string {
	return t.Format("15:04")
}

// CategoryFor derives the default category from a URL's domain.
// "https://mail.google.com/x" -> "Google". Falls back to "Other".
func CategoryFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "Other"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		host = parts[len(parts)-2]
	}
	return TitleCaseDomain(host)
}

// TitleCaseDomain uppercases the first letter of a domain label.
func TitleCaseDomain(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NormalizeDomain canonicalizes a whitelist entry: strips scheme, leading
// www. and any path. Returns an error if no domain remains.
func NormalizeDomain(raw string) (string, error) {
	d := strings.TrimSpace(strings.ToLower(raw))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	if d == "" || !strings.Contains(d, ".") {
		return "", fmt.Errorf("invalid domain: %q", raw)
	}
	return d, nil
}

// WhitelistMatch reports whether hostname is protected by pattern:
// exact match, or hostname is a subdomain of pattern.
func WhitelistMatch(hostname, pattern string) bool {
	return hostname == pattern || strings.HasSuffix(hostname, "."+pattern)
}

// IsWhitelisted reports whether the URL's hostname matches any pattern.
// Unparseable URLs are never protected.
func IsWhitelisted(rawURL string, whitelist []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	for _, p := range whitelist {
		if WhitelistMatch(host, p) {
			return true
		}
	}
	return false
}
