package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "EXAMNOVA_CONFIG"
	dataDirEnv      = "EXAMNOVA_DATA_DIR"
	rapidAPIKeyEnv  = "RAPIDAPI_KEY"
	rapidAPIHostEnv = "RAPIDAPI_HOST"
	emailAPIKeyEnv  = "EMAIL_API_KEY"
	emailEndpoint   = "EMAIL_ENDPOINT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Source        SourceConfig       `yaml:"source"`
	Storage       StorageConfig      `yaml:"storage"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Email         EmailConfig        `yaml:"email"`
}

// NotificationConfig wires the primary notification channel. An empty
// webhook URL routes deliveries to the synchronous alert fallback.
type NotificationConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScraperConfig bounds the corpus builder run.
type ScraperConfig struct {
	BaseURL          string `yaml:"baseUrl"`
	CorpusPath       string `yaml:"corpusPath"`
	MaxLinks         int    `yaml:"maxLinks"`
	MaxDetails       int    `yaml:"maxDetails"`
	FetchDelayMS     int    `yaml:"fetchDelayMs"`
	DescriptionLimit int    `yaml:"descriptionLimit"`
}

// FetchDelay converts the configured inter-request delay to a duration.
func (s ScraperConfig) FetchDelay() time.Duration {
	return time.Duration(s.FetchDelayMS) * time.Millisecond
}

// SourceConfig describes the third-party aggregator API.
type SourceConfig struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"apiKey"`
	APIHost string `yaml:"apiHost"`
}

// StorageConfig locates the local SQLite database.
type StorageConfig struct {
	DataDir string `yaml:"dataDir"`
}

// SchedulerConfig defines how often the reminder scan fires.
type SchedulerConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
}

// Interval converts the configured tick period to a duration.
func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

// EmailConfig wires the transactional-email provider. Leaving Endpoint or
// APIKey empty keeps the email channel unavailable.
type EmailConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	From     string `yaml:"from"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataDirEnv); v != "" {
		c.Storage.DataDir = v
	}

	if v := os.Getenv(rapidAPIKeyEnv); v != "" {
		c.Source.APIKey = v
	}

	if v := os.Getenv(rapidAPIHostEnv); v != "" {
		c.Source.APIHost = v
	}

	if v := os.Getenv(emailAPIKeyEnv); v != "" {
		c.Email.APIKey = v
	}

	if v := os.Getenv(emailEndpoint); v != "" {
		c.Email.Endpoint = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scraper.BaseURL != "" {
		base.Scraper.BaseURL = override.Scraper.BaseURL
	}
	if override.Scraper.CorpusPath != "" {
		base.Scraper.CorpusPath = override.Scraper.CorpusPath
	}
	if override.Scraper.MaxLinks > 0 {
		base.Scraper.MaxLinks = override.Scraper.MaxLinks
	}
	if override.Scraper.MaxDetails > 0 {
		base.Scraper.MaxDetails = override.Scraper.MaxDetails
	}
	if override.Scraper.FetchDelayMS > 0 {
		base.Scraper.FetchDelayMS = override.Scraper.FetchDelayMS
	}
	if override.Scraper.DescriptionLimit > 0 {
		base.Scraper.DescriptionLimit = override.Scraper.DescriptionLimit
	}

	if override.Source.URL != "" {
		base.Source.URL = override.Source.URL
	}
	if override.Source.APIKey != "" {
		base.Source.APIKey = override.Source.APIKey
	}
	if override.Source.APIHost != "" {
		base.Source.APIHost = override.Source.APIHost
	}

	if override.Storage.DataDir != "" {
		base.Storage.DataDir = override.Storage.DataDir
	}

	if override.Scheduler.IntervalSeconds > 0 {
		base.Scheduler.IntervalSeconds = override.Scheduler.IntervalSeconds
	}

	if override.Notifications.WebhookURL != "" {
		base.Notifications.WebhookURL = override.Notifications.WebhookURL
	}

	if override.Email.Endpoint != "" {
		base.Email.Endpoint = override.Email.Endpoint
	}
	if override.Email.APIKey != "" {
		base.Email.APIKey = override.Email.APIKey
	}
	if override.Email.From != "" {
		base.Email.From = override.Email.From
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scraper: ScraperConfig{
			BaseURL:          "https://govtjobsalert.in/",
			CorpusPath:       "data/jobs.json",
			MaxLinks:         50,
			MaxDetails:       30,
			FetchDelayMS:     500,
			DescriptionLimit: 2000,
		},
		Source: SourceConfig{
			URL:     "https://sarkari-result.p.rapidapi.com/",
			APIHost: "sarkari-result.p.rapidapi.com",
		},
		Storage:   StorageConfig{DataDir: "data"},
		Scheduler: SchedulerConfig{IntervalSeconds: 60},
		Email:     EmailConfig{From: "reminders@examnova.app"},
	}
}
