package sqlite

import "time"

// Config holds SQLite settings
type Config struct {
	// Path is the database file; ":memory:" keeps everything in process
	Path string

	// BusyTimeout is how long a writer waits on a locked database
	BusyTimeout time.Duration
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:        "wordmaster.db",
		BusyTimeout: 5 * time.Second,
	}
}
