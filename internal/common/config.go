package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
)

// Config holds all application configuration
type Config struct {
	Layout   LayoutConfig
	Source   SourceConfig
	Legend   LegendConfig
	Output   OutputConfig
	Database DatabaseConfig
	Log      LogConfig
}

// LayoutConfig controls line reconstruction.
type LayoutConfig struct {
	LineTolerance float64 // y rounding unit used to merge runs onto one line
	WordGap       float64 // glyph gap, as a fraction of font size, that starts a new run
}

// SourceConfig selects and tunes the text-extraction backend.
type SourceConfig struct {
	Engine      constants.Engine
	Pdftotext   string
	Prefetch    int           // pages fetched ahead of the processor; 0 disables prefetching
	PageTimeout time.Duration // bound on reading one page; 0 means no limit
}

// LegendConfig overrides legend page detection.
type LegendConfig struct {
	Marker   string // regular expression; empty keeps the built-in "Code Description"
	MinLines int
}

// OutputConfig holds output related settings.
type OutputConfig struct {
	Format constants.Format // empty -> chosen from the output extension
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "text" | "json"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	format, _ := constants.ParseFormat(getEnv("CLAIMS_FORMAT", ""))
	return &Config{
		Layout: LayoutConfig{
			LineTolerance: getEnvAsFloat64("CLAIMS_LINE_TOLERANCE", 1.0),
			WordGap:       getEnvAsFloat64("CLAIMS_WORD_GAP", 0.3),
		},
		Source: SourceConfig{
			Engine:      constants.Engine(getEnv("CLAIMS_ENGINE", string(constants.EnginePDF))),
			Pdftotext:   getEnv("PDFTOTEXT", "pdftotext"),
			Prefetch:    getEnvAsInt("CLAIMS_PREFETCH", 4),
			PageTimeout: getEnvAsDuration("CLAIMS_PAGE_TIMEOUT", 0),
		},
		Legend: LegendConfig{
			Marker:   getEnv("CLAIMS_LEGEND_MARKER", ""),
			MinLines: getEnvAsInt("CLAIMS_LEGEND_MIN_LINES", 2),
		},
		Output: OutputConfig{
			Format: format,
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 4),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Log: LogConfig{
			Level:  getEnv("CLAIMS_LOG_LEVEL", "warn"),
			Format: getEnv("CLAIMS_LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Layout.LineTolerance <= 0 {
		return NewAppError(CodeConfig, "CLAIMS_LINE_TOLERANCE must be positive", ErrInvalidInput)
	}
	if c.Layout.WordGap <= 0 {
		return NewAppError(CodeConfig, "CLAIMS_WORD_GAP must be positive", ErrInvalidInput)
	}
	switch c.Source.Engine {
	case constants.EnginePDF, constants.EnginePdftotext:
	default:
		return NewAppError(CodeConfig, "CLAIMS_ENGINE must be pdf or pdftotext, got "+string(c.Source.Engine), ErrInvalidInput)
	}
	if c.Source.Prefetch < 0 {
		return NewAppError(CodeConfig, "CLAIMS_PREFETCH must not be negative", ErrInvalidInput)
	}
	if c.Source.PageTimeout < 0 {
		return NewAppError(CodeConfig, "CLAIMS_PAGE_TIMEOUT must not be negative", ErrInvalidInput)
	}
	if c.Legend.MinLines < 1 {
		return NewAppError(CodeConfig, "CLAIMS_LEGEND_MIN_LINES must be at least 1", ErrInvalidInput)
	}
	if _, ok := ParseLevel(c.Log.Level); !ok {
		return NewAppError(CodeConfig, "unknown log level "+c.Log.Level, ErrInvalidInput)
	}
	return nil
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
