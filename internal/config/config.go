package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the companion service. All values come from
// RIFTWATCH_* environment variables with the defaults below; the staged-fetch
// windows and timeouts were tuned against the real client and should be
// treated as starting points, not constants.
type Config struct {
	Addr string `default:"127.0.0.1"`
	Port int    `default:"5000"`

	// Credential discovery
	ClientProcess string `split_words:"true" default:"LeagueClientUx.exe"`
	LogDir        string `split_words:"true" default:"C:\\Riot Games\\League of Legends"`
	MinLogSize    int64  `split_words:"true" default:"500"`

	// Control API client
	RequestTimeout time.Duration `split_words:"true" default:"5s"`

	// Live telemetry API
	TelemetryURL     string        `split_words:"true" default:"https://127.0.0.1:2999"`
	TelemetryTimeout time.Duration `split_words:"true" default:"5s"`

	// Match history cache
	HistoryTTL        time.Duration `split_words:"true" default:"5m"`
	HistoryMaxEntries int           `split_words:"true" default:"100"`
	PUUIDTTL          time.Duration `envconfig:"PUUID_TTL" default:"10m"`
	PUUIDMaxEntries   int           `envconfig:"PUUID_MAX_ENTRIES" default:"200"`

	// Staged history fetch profiles
	BaselineWindow  int           `split_words:"true" default:"30"`
	BaselineTimeout time.Duration `split_words:"true" default:"12s"`
	ExpandedWindow  int           `split_words:"true" default:"50"`
	ExpandedTimeout time.Duration `split_words:"true" default:"18s"`
	DirectExtra     time.Duration `split_words:"true" default:"6s"`
	DirectMax       time.Duration `split_words:"true" default:"28s"`

	// Watcher cadences
	AcceptInterval    time.Duration `split_words:"true" default:"1s"`
	BanPickInterval   time.Duration `split_words:"true" default:"500ms"`
	AnalyzeInterval   time.Duration `split_words:"true" default:"2s"`
	EnemyRetryMax     int           `split_words:"true" default:"10"`
	EnemyRetryBackoff time.Duration `split_words:"true" default:"3s"`

	// Local match archive
	ArchivePath string `split_words:"true" default:"riftwatch.db"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("riftwatch", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
