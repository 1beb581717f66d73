package jobstream

// Config holds configuration for the remote job-ad feed.
type Config struct {
	// BaseURL is the feed host, without a trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://jobstream.api.jobtechdev.se" validate:"required,url"`
	// StreamPath returns ads changed since a timestamp.
	StreamPath string `mapstructure:"stream_path" default:"/stream"`
	// SnapshotPath returns all currently published ads.
	SnapshotPath string `mapstructure:"snapshot_path" default:"/snapshot"`
	// APIKey is sent as the api-key header when set.
	APIKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds a single request. Snapshots are large.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
	// RequestsPerSecond paces requests against the feed.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"1" validate:"gt=0"`
	// Places restricts the stream to these location concept ids.
	Places []string `mapstructure:"places" default:""`
	// Occupations restricts the stream to these occupation concept ids.
	Occupations []string `mapstructure:"occupations" default:""`
}

// Filtered reports whether the deployment keeps only a subset of all ads.
func (c Config) Filtered() bool {
	return len(c.Places) > 0 || len(c.Occupations) > 0
}
