package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxBackups caps the ledger. Oldest entries are evicted first.
	MaxBackups = 50

	// BackupVersion is stamped into every backup payload.
	BackupVersion = "1.0.0"

	// backupLabelDomains is how many distinct domains the label names.
	backupLabelDomains = 3
)

// Backup is an immutable snapshot of one archived batch, kept apart from
// the live link log for disaster recovery.
type Backup struct {
	ID           string     `json:"id"`
	Timestamp    string     `json:"timestamp"`
	ReadableTime string     `json:"readableTime"`
	Count        int        `json:"count"`
	TabsClosed   int        `json:"tabsClosed"`
	Label        string     `json:"label"`
	Data         BackupData `json:"data"`
}

// BackupData is the downloadable payload of a single backup.
type BackupData struct {
	Created    string `json:"created"`
	Version    string `json:"version"`
	TabsClosed int    `json:"tabsClosed"`
	Links      []Link `json:"links"`
}

// NewBackup builds a snapshot from an archived batch.
func NewBackup(id string, links []Link, tabsClosed int, now time.Time) Backup {
	return Backup{
		ID:           id,
		Timestamp:    FormatTimestamp(now),
		ReadableTime: now.Format("January 2, 2006 15:04"),
		Count:        len(links),
		TabsClosed:   tabsClosed,
		Label:        BackupLabel(links),
		Data: BackupData{
			Created:    FormatTimestamp(now),
			Version:    BackupVersion,
			TabsClosed: tabsClosed,
			Links:      links,
		},
	}
}

// BackupLabel derives a human label from up to three distinct hostnames in
// the batch, www-stripped, title-cased and comma-joined, with a "(+K)"
// suffix when more links exist beyond those domains. Zero links reads
// "Empty Clean".
func BackupLabel(links []Link) string {
	if len(links) == 0 {
		return "Empty Clean"
	}

	seen := make(map[string]bool)
	var domains []string
	for _, l := range links {
		host := strings.TrimPrefix(l.Hostname(), "www.")
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		domains = append(domains, TitleCaseDomain(host))
		if len(domains) == backupLabelDomains {
			break
		}
	}

	if len(domains) == 0 {
		return fmt.Sprintf("%d links", len(links))
	}

	label := strings.Join(domains, ", ")
	if len(links) > backupLabelDomains {
		label += fmt.Sprintf(" (+%d)", len(links)-backupLabelDomains)
	}
	return label
}

// TrimBackups enforces the ledger cap by dropping the oldest entries.
// Backups are appended in arrival order, so the front of the slice is oldest.
func TrimBackups(backups []Backup) []Backup {
	if len(backups) <= MaxBackups {
		return backups
	}
	return backups[len(backups)-MaxBackups:]
}
