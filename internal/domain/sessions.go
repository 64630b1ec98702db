package domain

import (
	"sort"
	"strings"
	"time"
)

// Session is derived, never stored: the set of links sharing a grouping key.
// Label, pin and date come from the first member, which the session-level
// invariant guarantees is representative.
type Session struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	IsPinned  bool   `json:"isPinned"`
	DateGroup string `json:"dateGroup,omitempty"`
	Timestamp string `json:"timestamp"`
	Links     []Link `json:"links"`
}

// GroupSessions folds the link log into sessions, preserving log order
// within each session and first-appearance order across sessions.
func GroupSessions(links []Link) []Session {
	byKey := make(map[string]*Session)
	var order []string

	for _, l := range links {
		key := l.GroupingKey()
		s, ok := byKey[key]
		if !ok {
			s = &Session{
				Key:       key,
				Label:     l.SessionLabel,
				IsPinned:  l.IsPinned,
				DateGroup: l.DateGroup,
				Timestamp: l.Timestamp,
			}
			byKey[key] = s
			order = append(order, key)
		}
		if timestampAfter(l.Timestamp, s.Timestamp) {
			s.Timestamp = l.Timestamp
		}
		s.Links = append(s.Links, l)
	}

	out := make([]Session, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// SortSessions orders sessions for display: pinned first, then newest first.
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].IsPinned != sessions[j].IsPinned {
			return sessions[i].IsPinned
		}
		return timestampAfter(sessions[i].Timestamp, sessions[j].Timestamp)
	})
}

// timestampAfter compares two RFC3339 timestamps by instant. Imported links
// may carry a different UTC offset, so string comparison is not enough;
// unparseable values fall back to lexical order.
func timestampAfter(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}

// LinkFilter narrows the log for display. All conditions are optional and
// combine with AND.
type LinkFilter struct {
	Text         string // substring of title or url, case-insensitive
	Category     string // exact match
	SessionLabel string // exact match
}

// Match reports whether a link passes the filter.
func (f LinkFilter) Match(l Link) bool {
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.URL), needle) {
			return false
		}
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.SessionLabel != "" && l.SessionLabel != f.SessionLabel {
		return false
	}
	return true
}

// FilterLinks returns the links passing the filter, in log order.
func FilterLinks(links []Link, f LinkFilter) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// SignatureSet indexes a log by dedup signature.
func SignatureSet(links []Link) map[string]bool {
	set := make(map[string]bool, len(links))
	for _, l := range links {
		set[l.Signature()] = true
	}
	return set
}
