package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/weedbox/pokertournament/apperr"
)

type Config struct {
	DBPath             string        `env:"POKER_DB_PATH"              envDefault:"pokertournament.db"`
	TickInterval       time.Duration `env:"POKER_TICK_INTERVAL"        envDefault:"500ms"`
	LogLevel           string        `env:"POKER_LOG_LEVEL"            envDefault:"info"`
	LogFormat          string        `env:"POKER_LOG_FORMAT"           envDefault:"json"` // json 或 console
	MoveConfirmTimeout int           `env:"POKER_MOVE_CONFIRM_TIMEOUT" envDefault:"30"`   // 秒
	Username           string        `env:"POKER_USERNAME"             envDefault:"system"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, apperr.Wrap(apperr.Kind_ConfigurationError, err, "config: parse env")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return apperr.Configuration("config: tick interval %s must be positive", c.TickInterval)
	}

	if c.MoveConfirmTimeout <= 0 {
		return apperr.Configuration("config: move confirm timeout %d must be positive", c.MoveConfirmTimeout)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return apperr.Configuration("config: unknown log format %q", c.LogFormat)
	}

	return nil
}
