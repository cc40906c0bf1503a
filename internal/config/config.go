package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr   string
	AppURL     string
	CronSecret string

	DBDriver string
	DBDSN    string

	ProbeTimeout     time.Duration
	ProbeConcurrency int
	CheckInterval    time.Duration
	StatusWindow     time.Duration

	BurstWindow    time.Duration
	BurstThreshold int

	RedisURL     string
	CycleLockTTL time.Duration

	SMTP   SMTPConfig
	Twilio TwilioConfig

	AlertMaxRetries int
	AlertTimeout    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	FromName string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	APIBase    string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:   envString("HTTP_ADDR", ":8080"),
		AppURL:     strings.TrimRight(envString("APP_URL", "http://localhost:8080"), "/"),
		CronSecret: envString("CRON_SECRET", ""),

		DBDriver: envString("DB_DRIVER", "sqlite3"),
		DBDSN:    envString("DB_DSN", "sitepulse.db"),

		ProbeTimeout:     envDuration("PROBE_TIMEOUT", 30*time.Second),
		ProbeConcurrency: envInt("PROBE_CONCURRENCY", 0),
		CheckInterval:    envDuration("CHECK_INTERVAL", time.Minute),
		StatusWindow:     envDuration("STATUS_WINDOW", time.Hour),

		BurstWindow:    envDuration("BURST_WINDOW", time.Hour),
		BurstThreshold: envInt("BURST_THRESHOLD", 3),

		RedisURL:     envString("REDIS_URL", ""),
		CycleLockTTL: envDuration("CYCLE_LOCK_TTL", 2*time.Minute),

		SMTP: SMTPConfig{
			Host:     envString("SMTP_HOST", ""),
			Port:     envString("SMTP_PORT", "587"),
			User:     envString("SMTP_USER", ""),
			Password: envString("SMTP_PASSWORD", ""),
			From:     envString("ALERT_FROM_EMAIL", "alerts@localhost"),
			FromName: envString("ALERT_FROM_NAME", "SitePulse"),
		},
		Twilio: TwilioConfig{
			AccountSID: envString("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  envString("TWILIO_AUTH_TOKEN", ""),
			FromNumber: envString("TWILIO_FROM_NUMBER", ""),
			APIBase:    envString("TWILIO_API_BASE", "https://api.twilio.com"),
		},

		AlertMaxRetries: envInt("ALERT_MAX_RETRIES", 2),
		AlertTimeout:    envDuration("ALERT_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("PROBE_TIMEOUT must be positive")
	}
	if c.BurstThreshold < 1 {
		return fmt.Errorf("BURST_THRESHOLD must be at least 1")
	}
	if c.BurstWindow <= 0 {
		return fmt.Errorf("BURST_WINDOW must be positive")
	}
	if c.CheckInterval < 0 {
		return fmt.Errorf("CHECK_INTERVAL must not be negative")
	}
	if c.CycleLockTTL < time.Second {
		return fmt.Errorf("CYCLE_LOCK_TTL must be at least 1s")
	}
	return nil
}
