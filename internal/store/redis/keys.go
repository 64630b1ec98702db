package redis

const (
	// KeyLinks holds the full link log as one JSON array.
	KeyLinks = "tabkeeper:savedLinks"
	// KeySettings holds the settings record as one JSON object.
	KeySettings = "tabkeeper:settings"
	// KeyWhitelist holds the whitelist as one JSON array.
	KeyWhitelist = "tabkeeper:whitelist"
	// KeyBackups holds the backup ledger as one JSON array.
	KeyBackups = "tabkeeper:backups"

	// ChannelEvents is the pub/sub channel writers announce changes on.
	// The payload is the logical key name that changed.
	ChannelEvents = "tabkeeper:events"
)
