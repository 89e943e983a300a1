package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"5250"`

	// Path of the SQLite database file
	DBPath string `env:"DB_PATH" envDefault:"database/crm.db"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JSON file holding the location groups used to expand preferred locations
	LocationGroupsPath string `env:"LOCATION_GROUPS_PATH" envDefault:"config/location_groups.json"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	Matching struct {
		// Number of matches returned when the caller does not ask for a limit
		DefaultLimit int `env:"MATCH_DEFAULT_LIMIT" envDefault:"10"`

		// Number of concurrent property evaluations per ranking
		Workers int `env:"MATCH_WORKERS" envDefault:"4"`
	}

	FollowUp struct {
		// How often the follow-up sweep looks for clients and tasks that are due
		SweepInterval time.Duration `env:"FOLLOWUP_SWEEP_INTERVAL" envDefault:"1m"`
	}

	// RecurrenceProcessing configuration
	RecurrenceProcessing struct {
		// Maximum number of completed tasks waiting to spawn their next occurrence
		QueueSize int `env:"RECURRENCE_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent occurrence spawners
		WorkerCount int `env:"RECURRENCE_WORKERS" envDefault:"2"`

		// Maximum number of retries for a failed spawn
		MaxRetries int `env:"RECURRENCE_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"RECURRENCE_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
