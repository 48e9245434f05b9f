package contract

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/destiny/schema"
)

// Default values for configuration.
const (
	DefaultSessionName = "default"
	DefaultSessionTTL  = 30 * 24 * time.Hour
	DefaultAddr        = ":8080"
	DefaultShareHeader = "🔮 Destiny Matcher compatibility check"
	DefaultShareFooter = "#DestinyMatcher #Horoscope #Compatibility"
	DefaultLogLevel    = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

var sessionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	SignA string // Positional selector queries, may be empty
	SignB string

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	DataFile    string
	Seed        uint64
	HasSeed     bool // Seed was provided; otherwise the evaluator seeds itself
	RevealDelay time.Duration

	ShareMode    schema.ShareMode
	ShareWebhook string
	ShareURL     string
	ShareHeader  string
	ShareFooter  string

	SessionName      string
	SessionTTL       time.Duration
	SessionBackend   schema.DatabaseBackend
	SessionDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat schema.LogFormat

	Addr string

	UseEmojis bool // Enable emojis in output
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	SignAStr string
	SignBStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	DataFile         string `mapstructure:"data-file"`
	Seed             string `mapstructure:"seed"`
	SessionName      string `mapstructure:"session-name"`
	SessionTTL       string `mapstructure:"session-ttl"`
	SessionBackend   string `mapstructure:"session-backend"`
	SessionDBConnect string `mapstructure:"session-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`

	// --- Fields from matchCmd.Flags() ---
	RevealDelay string `mapstructure:"reveal-delay"`

	// --- Fields from shareCmd.Flags() ---
	ShareMode    string `mapstructure:"share-mode"`
	ShareWebhook string `mapstructure:"share-webhook"`
	ShareURL     string `mapstructure:"share-url"`
	ShareHeader  string `mapstructure:"share-header"`
	ShareFooter  string `mapstructure:"share-footer"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEvaluation(cfg, input); err != nil {
		return err
	}
	if err := processShare(cfg, input); err != nil {
		return err
	}
	if err := processSession(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of connection strings
// for MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		// Empty means localhost:6379
		if connStr == "" {
			return nil
		}
		if strings.Contains(connStr, "://") {
			if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
				return fmt.Errorf("Redis connection URL must start with redis:// or rediss://")
			}
			return nil
		}
		if !strings.Contains(connStr, ":") {
			return fmt.Errorf("Redis connection string must be host:port or a redis:// URL")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.SignA = strings.TrimSpace(input.SignAStr)
	cfg.SignB = strings.TrimSpace(input.SignBStr)
	cfg.OutputFile = input.OutputFile
	cfg.DataFile = strings.TrimSpace(input.DataFile)

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = schema.LogFormat(strings.ToLower(input.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = schema.ConsoleLog
	}
	if _, ok := schema.ValidLogFormats[cfg.LogFormat]; !ok {
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}

	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	return nil
}

// processEvaluation handles the seed and reveal delay.
func processEvaluation(cfg *Config, input *ConfigRawInput) error {
	cfg.HasSeed = false
	if s := strings.TrimSpace(input.Seed); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed '%s'. must be a non-negative integer: %w", input.Seed, err)
		}
		cfg.Seed = seed
		cfg.HasSeed = true
	}

	cfg.RevealDelay = 0
	if d := strings.TrimSpace(input.RevealDelay); d != "" {
		delay, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid reveal delay '%s': %w", input.RevealDelay, err)
		}
		if delay < 0 {
			return fmt.Errorf("reveal delay cannot be negative (received %s)", delay)
		}
		cfg.RevealDelay = delay
	}
	return nil
}

// processShare handles the share mode and message decoration.
func processShare(cfg *Config, input *ConfigRawInput) error {
	cfg.ShareMode = schema.ShareMode(strings.ToLower(input.ShareMode))
	if cfg.ShareMode == "" {
		cfg.ShareMode = schema.AutoShare
	}
	if _, ok := schema.ValidShareModes[cfg.ShareMode]; !ok {
		return fmt.Errorf("invalid share mode '%s'. must be auto, native, clipboard, manual", input.ShareMode)
	}

	cfg.ShareWebhook = strings.TrimSpace(input.ShareWebhook)
	if cfg.ShareWebhook != "" {
		if err := validateHTTPURL(cfg.ShareWebhook); err != nil {
			return fmt.Errorf("invalid share webhook: %w", err)
		}
	}
	if cfg.ShareMode == schema.NativeShare && cfg.ShareWebhook == "" {
		return fmt.Errorf("share-webhook is required when share mode is %s", schema.NativeShare)
	}

	cfg.ShareURL = strings.TrimSpace(input.ShareURL)
	if cfg.ShareURL != "" {
		if err := validateHTTPURL(cfg.ShareURL); err != nil {
			return fmt.Errorf("invalid share url: %w", err)
		}
	}

	cfg.ShareHeader = input.ShareHeader
	if cfg.ShareHeader == "" {
		cfg.ShareHeader = DefaultShareHeader
	}
	cfg.ShareFooter = input.ShareFooter
	if cfg.ShareFooter == "" {
		cfg.ShareFooter = DefaultShareFooter
	}
	return nil
}

// processSession handles the session name and staleness limit.
func processSession(cfg *Config, input *ConfigRawInput) error {
	cfg.SessionName = strings.TrimSpace(input.SessionName)
	if cfg.SessionName == "" {
		cfg.SessionName = DefaultSessionName
	}
	if !sessionNamePattern.MatchString(cfg.SessionName) {
		return fmt.Errorf("invalid session name '%s'. must match %s", input.SessionName, sessionNamePattern)
	}

	cfg.SessionTTL = DefaultSessionTTL
	if s := strings.TrimSpace(input.SessionTTL); s != "" {
		ttl, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid session ttl '%s': %w", input.SessionTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("session ttl must be positive (received %s)", ttl)
		}
		cfg.SessionTTL = ttl
	}
	return nil
}

// validateBackendConfigs validates session and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Session Backend Validation ---
	cfg.SessionBackend = schema.DatabaseBackend(strings.ToLower(input.SessionBackend))
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidSessionBackends[cfg.SessionBackend]; !ok {
		return fmt.Errorf("invalid session backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.SessionBackend)
	}
	cfg.SessionDBConnect = input.SessionDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SessionBackend, cfg.SessionDBConnect); err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history store: %w", err)
	}

	// Session and history must not share one SQLite file
	if cfg.SessionBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		sessionDBPath := cfg.SessionDBConnect
		if sessionDBPath == "" {
			sessionDBPath = GetSessionDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if sessionDBPath == historyDBPath && sessionDBPath != ":memory:" {
			return fmt.Errorf("session and history storage must use different SQLite database files. Both resolve to %q", sessionDBPath)
		}
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
