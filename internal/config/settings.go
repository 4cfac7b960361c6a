package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds process-level settings read from the environment.
// CLI flags default to these values.
type Settings struct {
	DBPath      string        `env:"RUNNER_DB"           envDefault:"~/.runner/scores.db"`
	ConfigPath  string        `env:"RUNNER_CONFIG"`
	FPS         int           `env:"RUNNER_FPS"          envDefault:"60"`
	Seed        int64         `env:"RUNNER_SEED"         envDefault:"0"`
	LogLevel    string        `env:"RUNNER_LOG_LEVEL"    envDefault:"info"`
	LogFile     string        `env:"RUNNER_LOG_FILE"     envDefault:"~/.runner/runner.log"`
	SSHAddr     string        `env:"RUNNER_SSH_ADDR"     envDefault:":23234"`
	HostKeyPath string        `env:"RUNNER_HOST_KEY"`
	IdleTimeout time.Duration `env:"RUNNER_IDLE_TIMEOUT" envDefault:"30m"`
}

// LoadSettings reads optional .env files, then parses the environment.
// Missing .env files are not an error.
func LoadSettings(dotenvFiles ...string) (Settings, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
