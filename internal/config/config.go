package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"glpiboard/internal/domain"
)

const (
	defaultBackendURL  = "http://127.0.0.1:8765"
	defaultStateDBPath = "./glpiboard.db"
	defaultExportDir   = "./exports"
)

// DefaultExportKinds are exported on each scheduled run when export_kinds is
// not set.
var DefaultExportKinds = []string{domain.ExportKindStock, domain.ExportKindPlans}

// ScheduleParser accepts the standard 5-field cron syntax.
var ScheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

type Config struct {
	BackendURL         string `yaml:"backend_url"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	StateDBPath        string `yaml:"state_db_path"`

	ExportDir      string   `yaml:"export_dir"`
	ExportSchedule string   `yaml:"export_schedule"`
	ExportKinds    []string `yaml:"export_kinds"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	Timezone string `yaml:"timezone"`
	Colors   *bool  `yaml:"colors"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

// LoadConfig reads config.yaml (or CONFIG_PATH), applies env overrides and
// defaults, and exits on invalid values.
func LoadConfig() Config {
	cfg, err := LoadConfigFile(Path())
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}

// Path is the config file LoadConfig reads.
func Path() string {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return envPath
	}
	return "config.yaml"
}

// LoadConfigFile is LoadConfig returning errors instead of exiting. A missing
// file is not an error: env and defaults still apply.
func LoadConfigFile(configPath string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing %s: %w", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", configPath, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envOverride(&cfg.BackendURL, "GLPIBOARD_BACKEND_URL")
	if err := envOverrideInt(&cfg.HTTPTimeoutSeconds, "GLPIBOARD_HTTP_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	envOverride(&cfg.StateDBPath, "GLPIBOARD_STATE_DB")
	envOverride(&cfg.ExportDir, "GLPIBOARD_EXPORT_DIR")
	envOverrideAllowEmpty(&cfg.ExportSchedule, "GLPIBOARD_EXPORT_SCHEDULE")
	if kinds := os.Getenv("GLPIBOARD_EXPORT_KINDS"); kinds != "" {
		cfg.ExportKinds = splitList(kinds)
	}
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")
	if val := os.Getenv("GLPIBOARD_COLORS"); val != "" {
		b := strings.EqualFold(val, "true") || val == "1"
		cfg.Colors = &b
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.BackendURL == "" {
		cfg.BackendURL = defaultBackendURL
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	if cfg.StateDBPath == "" {
		cfg.StateDBPath = defaultStateDBPath
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = defaultExportDir
	}
	if len(cfg.ExportKinds) == 0 {
		cfg.ExportKinds = append([]string(nil), DefaultExportKinds...)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.Colors == nil {
		on := true
		cfg.Colors = &on
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend_url '%s': must be an http(s) URL", c.BackendURL)
	}
	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds '%d': must be >= 0", c.HTTPTimeoutSeconds)
	}
	for _, k := range c.ExportKinds {
		if !SchedulableKind(k) {
			return fmt.Errorf("invalid export_kinds entry '%s': must be stock, plans or bilan", k)
		}
	}
	if s := strings.TrimSpace(c.ExportSchedule); s != "" {
		if _, err := ScheduleParser.Parse(s); err != nil {
			return fmt.Errorf("invalid export_schedule '%s': %v", s, err)
		}
	}
	if (c.SlackBotToken == "") != (c.SlackChannelID == "") {
		return fmt.Errorf("partial Slack config: slack_bot_token and slack_channel_id are required together")
	}

	if strings.EqualFold(c.Timezone, "Local") {
		c.Location = time.Local
	} else {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %v", c.Timezone, err)
		}
		c.Location = loc
	}
	return nil
}

// SchedulableKind reports whether an export kind can run unattended. Single
// technician plans need a name and are CLI only.
func SchedulableKind(kind string) bool {
	switch kind {
	case domain.ExportKindStock, domain.ExportKindPlans, domain.ExportKindBilan:
		return true
	}
	return false
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

func (c Config) UseColors() bool {
	return c.Colors == nil || *c.Colors
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideAllowEmpty(field *string, envKey string) {
	if val, ok := os.LookupEnv(envKey); ok {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
