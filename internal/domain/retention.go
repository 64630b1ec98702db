package domain

import "strings"

// systemSchemes are browser-internal URL prefixes. System pages are never
// archived as links, though they remain eligible for closure.
var systemSchemes = []string{
	"chrome://",
	"edge://",
	"opera://",
	"vivaldi://",
	"brave://",
	"about:",
	"chrome-extension://",
	"moz-extension://",
}

// IsSystemURL reports whether a URL points at a browser-internal page.
// extensionURL, when non-empty, marks this system's own pages as internal too.
func IsSystemURL(rawURL, extensionURL string) bool {
	if rawURL == "" {
		return true
	}
	for _, scheme := range systemSchemes {
		if strings.HasPrefix(rawURL, scheme) {
			return true
		}
	}
	if extensionURL != "" && strings.HasPrefix(rawURL, extensionURL) {
		return true
	}
	return false
}

// CloseCandidates computes which tabs in one context get closed.
//
// Non-current contexts are swept entirely: only the user's active context
// keeps tabs. In the current context the last keep tabs by position order
// survive; everything before them is a candidate. Whitelisted hostnames
// (exact or subdomain match) are then exempted. Archiving is decided
// elsewhere; a whitelisted tab skipped here may still be archived.
func CloseCandidates(tabs []Tab, current bool, keep int, whitelist []string) []Tab {
	if !current {
		keep = 0
	}

	cut := len(tabs) - keep
	if cut < 0 {
		cut = 0
	}

	candidates := make([]Tab, 0, cut)
	for _, t := range tabs[:cut] {
		if IsWhitelisted(t.URL, whitelist) {
			continue
		}
		candidates = append(candidates, t)
	}
	return candidates
}

// BackgroundCandidates is the stricter variant used by the keyboard-shortcut
// path. On top of the position rule it hard-protects pinned tabs and any tab
// active in any window, regardless of keep-count.
func BackgroundCandidates(tabs []Tab, keep int, whitelist []string, activeIDs map[int]bool) []Tab {
	base := CloseCandidates(tabs, true, keep, whitelist)

	candidates := make([]Tab, 0, len(base))
	for _, t := range base {
		if t.Pinned || activeIDs[t.ID] {
			continue
		}
		candidates = append(candidates, t)
	}
	return candidates
}

// ActiveTabIDs collects the ids of tabs active in their window, across the
// whole tab set.
func ActiveTabIDs(tabs []Tab) map[int]bool {
	ids := make(map[int]bool)
	for _, t := range tabs {
		if t.Active {
			ids[t.ID] = true
		}
	}
	return ids
}
