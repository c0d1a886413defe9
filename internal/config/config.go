package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "America/New_York"
	configPathEnv     = "FILING_SCANNER_CONFIG"
	databaseURLEnv    = "DATABASE_URL"
	databasePathEnv   = "DATABASE_PATH"
	openAIKeyEnv      = "OPENAI_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	providerEnv       = "CLASSIFIER_PROVIDER"
	modelEnv          = "CLASSIFIER_MODEL"
	userAgentEnv      = "SEC_USER_AGENT"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	otlpEndpointEnv   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	logLevelEnv       = "LOG_LEVEL"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Registry      RegistryConfig     `yaml:"registry"`
	Classifier    ClassifierConfig   `yaml:"classifier"`
	Summarizer    SummarizerConfig   `yaml:"summarizer"`
	Taxonomy      TaxonomyConfig     `yaml:"taxonomy"`
	Notifications NotificationConfig `yaml:"notifications"`
	Telemetry     TelemetryConfig    `yaml:"telemetry"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// SchedulerConfig defines when the daily job should run.
type SchedulerConfig struct {
	RunAt    string         `yaml:"runAt"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	if loc, err := time.LoadLocation(defaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// RegistryConfig describes how to reach the filings registry.
type RegistryConfig struct {
	SearchURL       string        `yaml:"searchUrl"`
	ArchiveBaseURL  string        `yaml:"archiveBaseUrl"`
	TickersURL      string        `yaml:"tickersUrl"`
	TickerCachePath string        `yaml:"tickerCachePath"`
	TickerCacheTTL  time.Duration `yaml:"tickerCacheTtl"`
	UserAgent       string        `yaml:"userAgent"`
	PageSize        int           `yaml:"pageSize"`
	RequestDelay    time.Duration `yaml:"requestDelay"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	Forms           []string      `yaml:"forms"`
}

// ClassifierConfig defines how to contact the stage-3 language model.
type ClassifierConfig struct {
	Provider      string        `yaml:"provider"`
	Endpoint      string        `yaml:"endpoint"`
	Model         string        `yaml:"model"`
	APIKey        string        `yaml:"apiKey"`
	PromptFile    string        `yaml:"promptFile"`
	MaxInputChars int           `yaml:"maxInputChars"`
	Timeout       time.Duration `yaml:"timeout"`
}

// SummarizerConfig tunes the extractive fallback summary.
type SummarizerConfig struct {
	MaxSentences      int `yaml:"maxSentences"`
	MaxSentenceLength int `yaml:"maxSentenceLength"`
}

// TaxonomyConfig is the keyword configuration of stages 1 and 2.
// Lists are ordered: earlier entries win ties.
type TaxonomyConfig struct {
	TargetItemCodes      []string       `yaml:"targetItemCodes"`
	RescueItemCodes      []string       `yaml:"rescueItemCodes"`
	RescueCategory       string         `yaml:"rescueCategory"`
	Categories           []KeywordGroup `yaml:"categories"`
	Subcategories        []KeywordGroup `yaml:"subcategories"`
	BoilerplatePhrases   []string       `yaml:"boilerplatePhrases"`
	DepartureSubcategory string         `yaml:"departureSubcategory"`
	DepartureTerms       []string       `yaml:"departureTerms"`
	Roles                []KeywordGroup `yaml:"roles"`
}

// KeywordGroup is a label with the phrases that indicate it.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// TelemetryConfig enables OTLP trace export when an endpoint is set.
type TelemetryConfig struct {
	ServiceName  string `yaml:"serviceName"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if parsed, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = parsed
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Parse decodes YAML over the defaults; keys absent from raw keep their default values.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), err
	}
	if len(cfg.Taxonomy.Categories) == 0 {
		cfg.Taxonomy.Categories = DefaultTaxonomy().Categories
	}
	cfg.bindTimezone()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Database.Driver = DriverPostgres
		c.Database.DSN = v
	} else if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Driver = DriverSQLite
		c.Database.DSN = v
	}

	if v := os.Getenv(providerEnv); v != "" {
		c.Classifier.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.Classifier.Model = v
	}
	if c.Classifier.APIKey == "" {
		switch c.Classifier.Provider {
		case ProviderAnthropic:
			c.Classifier.APIKey = os.Getenv(anthropicKeyEnv)
		default:
			c.Classifier.APIKey = os.Getenv(openAIKeyEnv)
		}
	}

	if v := os.Getenv(userAgentEnv); v != "" {
		c.Registry.UserAgent = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(otlpEndpointEnv); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to UTC", tz)
		loc = time.UTC
	}
	c.Scheduler.location = loc
}

// Default returns a runnable configuration against the public EDGAR endpoints.
func Default() Config {
	return Config{
		Database:  DatabaseConfig{Driver: DriverSQLite, DSN: "filings.db"},
		Scheduler: SchedulerConfig{RunAt: "07:00", Timezone: defaultTimezone},
		Registry: RegistryConfig{
			SearchURL:       "https://efts.sec.gov/LATEST/search-index",
			ArchiveBaseURL:  "https://www.sec.gov",
			TickersURL:      "https://www.sec.gov/files/company_tickers.json",
			TickerCachePath: "cik_tickers_cache.json",
			TickerCacheTTL:  7 * 24 * time.Hour,
			UserAgent:       "FilingScanner admin@example.org",
			PageSize:        100,
			RequestDelay:    150 * time.Millisecond,
			RequestTimeout:  30 * time.Second,
			Forms:           []string{"8-K", "8-K/A"},
		},
		Classifier: ClassifierConfig{
			Provider:      ProviderOpenAI,
			MaxInputChars: 100000,
			Timeout:       60 * time.Second,
		},
		Summarizer: SummarizerConfig{MaxSentences: 2, MaxSentenceLength: 150},
		Taxonomy:   DefaultTaxonomy(),
		Telemetry:  TelemetryConfig{ServiceName: "filingscanner"},
		Logging:    LoggingConfig{Level: "info"},
	}
}
