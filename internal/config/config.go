// Package config provides centralized configuration management for the advisor.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Validation ValidationConfig
	Upload     UploadConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1, local only)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8501)
	Port int `env:"SERVER_PORT" default:"8501"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig locates the reference tables read at startup.
// Relative file names are resolved against Dir.
type DataConfig struct {
	// Dir is the directory holding the reference tables (default: data)
	Dir string `env:"ADVISOR_DATA_DIR" envAlt:"DATA_DIR" default:"data"`

	FAQFile          string `env:"ADVISOR_FAQ_FILE" default:"faq.csv"`
	RequirementsFile string `env:"ADVISOR_REQUIREMENTS_FILE" default:"requirements.csv"`
	CatalogFile      string `env:"ADVISOR_CATALOG_FILE" default:"catalog.csv"`
	PoliciesFile     string `env:"ADVISOR_POLICIES_FILE" default:"policies.csv"`
	ContactsFile     string `env:"ADVISOR_CONTACTS_FILE" default:"contacts.csv"`

	// AliasFile replaces the built-in column alias map when set
	AliasFile string `env:"ADVISOR_ALIAS_FILE"`
}

// Path resolves a configured file name against Dir. Empty names stay empty.
func (c *DataConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// ValidationConfig holds plan validation settings.
type ValidationConfig struct {
	// Program is printed in advisor notes (default: DPT)
	Program string `env:"ADVISOR_PROGRAM" default:"DPT"`

	// CatalogYear is printed in advisor notes (default: 2025-2026)
	CatalogYear string `env:"ADVISOR_CATALOG_YEAR" default:"2025-2026"`

	// MinTotalCredits triggers a low-load warning below it; 0 disables (default: 12)
	MinTotalCredits float64 `env:"ADVISOR_MIN_TOTAL_CREDITS" default:"12"`

	// TermOrder is how terms are compared for prerequisites: lexical or seasonal (default: seasonal)
	TermOrder string `env:"ADVISOR_TERM_ORDER" default:"seasonal"`
}

// UploadConfig holds upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the number of plans validated at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a validation waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"UPLOAD_MAX_WAIT" default:"10s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
