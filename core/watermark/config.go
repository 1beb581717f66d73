package watermark

// Config holds configuration for watermark persistence.
type Config struct {
	// Backend selects where the watermark lives (file, database, object).
	Backend string `mapstructure:"backend" default:"file" validate:"oneof=file database object"`
	// Path is the watermark file for the file backend.
	Path string `mapstructure:"path" default:"timestamp.txt"`
	// ObjectName is the object key for the object backend.
	ObjectName string `mapstructure:"object_name" default:"state/timestamp.txt"`
	// Key is the row key for the database backend.
	Key string `mapstructure:"key" default:"jobstream"`
	// FilteredStart is the initial watermark for deployments that keep a
	// filtered subset and therefore skip the full load.
	FilteredStart string `mapstructure:"filtered_start" default:"2022-01-01T00:00:00"`
}

const (
	BackendFile     = "file"
	BackendDatabase = "database"
	BackendObject   = "object"
)
