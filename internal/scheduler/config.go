package scheduler

import (
	"errors"
	"time"

	appconfig "github.com/nyumba/nyumba/internal/config"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

// Config controls scheduler intervals and the generation window.
type Config struct {
	RunInterval time.Duration
	MonthsAhead int
	JobTimeout  time.Duration
	LockKey     string
	LockTTL     time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval: time.Hour,
		MonthsAhead: 1,
		JobTimeout:  30 * time.Second,
		LockKey:     "nyumba:scheduler:run",
		LockTTL:     5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.MonthsAhead <= 0 {
		c.MonthsAhead = defaults.MonthsAhead
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockKey == "" {
		c.LockKey = defaults.LockKey
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}

// ProvideConfig maps application configuration onto the scheduler's knobs.
func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		RunInterval: cfg.SchedulerInterval,
		MonthsAhead: cfg.SchedulerMonthsAhead,
	}
}
