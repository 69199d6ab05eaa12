package config

const (
	// DefaultDatabasePath is the default path for the notebook database.
	DefaultDatabasePath = "./kotoba.db"

	// DefaultMaxUploadSize caps a single uploaded Anki export (32 MiB).
	DefaultMaxUploadSize = 32 << 20
)
