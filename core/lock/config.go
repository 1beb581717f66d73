package lock

// Config holds configuration for the writer lock.
type Config struct {
	// Path is the lock file. Empty means "<database path>.lock".
	Path string `mapstructure:"path" default:""`
}
