// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers an optional .env file, an optional YAML file and SONGS_* env vars on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Storage backends understood by the service.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile enables a rotated JSON log file next to stdout when set.
	LogFile string `koanf:"log_file"`

	// Rotation settings for LogFile.
	LogMaxSizeMB  int  `koanf:"log_max_size_mb"`
	LogMaxBackups int  `koanf:"log_max_backups"`
	LogMaxAgeDays int  `koanf:"log_max_age_days"`
	LogCompress   bool `koanf:"log_compress"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the track store: "mongo" or "memory".
	StoreBackend string `koanf:"store_backend"`

	// MongoURI is the connection string of the document database.
	MongoURI string `koanf:"mongo_uri"`

	// MongoDatabase and MongoCollection name where tracks live.
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`

	// MongoConnectTimeoutMS bounds connecting and the startup ping.
	MongoConnectTimeoutMS int `koanf:"mongo_connect_timeout_ms"`

	// Metrics settings. Names are namespace_subsystem[_prefix]_series.
	MetricsEnabled           bool              `koanf:"metrics_enabled"`
	MetricsNamespace         string            `koanf:"metrics_namespace"`
	MetricsSubsystem         string            `koanf:"metrics_subsystem"`
	MetricsPrefix            string            `koanf:"metrics_prefix"`
	MetricsRefreshIntervalMS int               `koanf:"metrics_refresh_interval_ms"`
	MetricsBuckets           []float64         `koanf:"metrics_buckets"`
	MetricsLabels            map[string]string `koanf:"metrics_labels"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogMaxSizeMB:          100,
		LogMaxBackups:         3,
		LogMaxAgeDays:         28,
		Addr:                  ":8080",
		StoreBackend:          BackendMongo,
		MongoURI:              "mongodb://localhost:27017",
		MongoDatabase:         "SongDb",
		MongoCollection:       "Songs",
		MongoConnectTimeoutMS: 10_000,

		MetricsEnabled:           true,
		MetricsNamespace:         "songs",
		MetricsSubsystem:         "catalogue",
		MetricsRefreshIntervalMS: 10_000,
	}
}
