package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for Dolphin Core.
//
// Connection secrets (broker, database, SMS) are always sourced from the
// environment. Load validates MQTT_HOST and the MARIADB_* settings
// fail-fast; the SMS credentials, ALERT_NUMBERS and EXCLUDE_DEVICES are
// read as given and may be empty. The remaining fields are
// tuning knobs that may be supplied by an optional YAML file; if the file
// is absent, built-in defaults apply.
type Config struct {
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Database  DatabaseConfig  `yaml:"database"`
	SMS       SMSConfig       `yaml:"sms"`
	DocStore  DocStoreConfig  `yaml:"docstore"`
	Alerts    AlertConfig     `yaml:"alerts"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	// Host is read from MQTT_HOST (required). The client connects to
	// mqtt://Host.
	Host string `yaml:"-"`

	// Username/Password are read from MQTT_USERNAME/MQTT_PASSWORD (optional).
	Username string `yaml:"-"`
	Password string `yaml:"-"`

	// ReconnectBackoff is the delay between connect/run retries (§4.9).
	ReconnectBackoff time.Duration `yaml:"reconnect_backoff"`
}

// DatabaseConfig contains MariaDB connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"-"` // MARIADB_HOST (required)
	User     string `yaml:"-"` // MARIADB_USER (required)
	Password string `yaml:"-"` // MARIADB_PASSWORD (required)
	Database string `yaml:"-"` // MARIADB_DATABASE (required)

	// MaxOpenConns bounds the connection pool.
	MaxOpenConns int `yaml:"max_open_conns"`
}

// SMSConfig contains the two alternate SMS provider credential sets.
type SMSConfig struct {
	NCPAccessKey string `yaml:"-"` // NCP_ACCESS_KEY
	NCPSecretKey string `yaml:"-"` // NCP_SECRET_KEY
	NCPSmsID     string `yaml:"-"` // NCP_SMS_ID

	BizAccountID string `yaml:"-"` // BIZ_SMS_ACCOUNT_ID
	BizSecretKey string `yaml:"-"` // BIZ_SMS_SECRET_KEY
	BizFrom      string `yaml:"-"` // BIZ_SMS_FROM

	// PollInterval is how often the gateway polls NCP send status.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PollMaxAttempts bounds status polling (Open Question #3 in SPEC_FULL.md).
	PollMaxAttempts int `yaml:"poll_max_attempts"`
}

// DocStoreConfig contains the document-store HTTP client settings. The
// store's own protocol is out of scope (spec.md §1); only its base URL
// and a request timeout are needed here.
type DocStoreConfig struct {
	BaseURL string        `yaml:"-"` // DOCSTORE_URL, optional
	Timeout time.Duration `yaml:"timeout"`
}

// AlertConfig contains alert recipient and suppression settings.
type AlertConfig struct {
	Numbers        []string `yaml:"-"` // ALERT_NUMBERS
	ExcludeDevices []string `yaml:"-"` // EXCLUDE_DEVICES

	// DedupeWindow is how long an identical in-flight alert is suppressed
	// (REDESIGN FLAGS: "deduplicate identical in-flight alerts").
	DedupeWindow time.Duration `yaml:"dedupe_window"`

	// WorkerPoolSize bounds concurrent alert-send goroutines (REDESIGN FLAGS).
	WorkerPoolSize int `yaml:"worker_pool_size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SchedulerConfig contains periodic task intervals.
type SchedulerConfig struct {
	LivenessInterval  time.Duration `yaml:"liveness_interval"`  // §4.5, default 5m
	BaselineInterval  time.Duration `yaml:"baseline_interval"`  // §4.6, default 60m
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"` // §4.7, default 5m
	StartupDelay      time.Duration `yaml:"startup_delay"`      // §4.7, default 125ms
}

// MissingEnvError is returned by Load when required environment variables
// are unset. It mirrors the original implementation's USAGE message.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("USAGE: Must be set %s", strings.Join(e.Keys, ", "))
}

// Load reads the optional YAML tuning file (may not exist) and then
// overlays required and optional settings from the environment.
//
// Parameters:
//   - path: path to an optional YAML file; pass "" to skip it entirely.
//
// Returns:
//   - *Config: ready to use
//   - error: a *MissingEnvError if required keys are unset, or a wrapped
//     error if the YAML file exists but cannot be parsed.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var missing []string
	cfg.MQTT.Host = requireEnv("MQTT_HOST", &missing)
	cfg.MQTT.Username = os.Getenv("MQTT_USERNAME")
	cfg.MQTT.Password = os.Getenv("MQTT_PASSWORD")

	cfg.Database.Host = requireEnv("MARIADB_HOST", &missing)
	cfg.Database.User = requireEnv("MARIADB_USER", &missing)
	cfg.Database.Password = requireEnv("MARIADB_PASSWORD", &missing)
	cfg.Database.Database = requireEnv("MARIADB_DATABASE", &missing)

	cfg.DocStore.BaseURL = os.Getenv("DOCSTORE_URL")

	cfg.SMS.NCPAccessKey = os.Getenv("NCP_ACCESS_KEY")
	cfg.SMS.NCPSecretKey = os.Getenv("NCP_SECRET_KEY")
	cfg.SMS.NCPSmsID = os.Getenv("NCP_SMS_ID")
	cfg.SMS.BizAccountID = os.Getenv("BIZ_SMS_ACCOUNT_ID")
	cfg.SMS.BizSecretKey = os.Getenv("BIZ_SMS_SECRET_KEY")
	cfg.SMS.BizFrom = os.Getenv("BIZ_SMS_FROM")

	cfg.Alerts.Numbers = parseCommaSeparated(os.Getenv("ALERT_NUMBERS"))
	cfg.Alerts.ExcludeDevices = parseCommaSeparated(os.Getenv("EXCLUDE_DEVICES"))

	if len(missing) > 0 {
		return nil, &MissingEnvError{Keys: missing}
	}

	return cfg, nil
}

// requireEnv reads an environment variable, appending its name to missing
// if unset or empty.
func requireEnv(key string, missing *[]string) string {
	v := os.Getenv(key)
	if v == "" {
		*missing = append(*missing, key)
	}
	return v
}

// parseCommaSeparated splits a comma-separated env value, trimming
// whitespace around each entry. An empty input yields an empty (not nil)
// slice — callers treat "no entries" the same either way.
func parseCommaSeparated(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// defaultConfig returns a Config with sensible tuning defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			ReconnectBackoff: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
		},
		DocStore: DocStoreConfig{
			BaseURL: "http://127.0.0.1:8081",
			Timeout: 5 * time.Second,
		},
		SMS: SMSConfig{
			PollInterval:    10 * time.Second,
			PollMaxAttempts: 30,
		},
		Alerts: AlertConfig{
			DedupeWindow:   30 * time.Second,
			WorkerPoolSize: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Scheduler: SchedulerConfig{
			LivenessInterval:  5 * time.Minute,
			BaselineInterval:  60 * time.Minute,
			HeartbeatInterval: 5 * time.Minute,
			StartupDelay:      125 * time.Millisecond,
		},
	}
}
