package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// JIRA credentials used when the caller does not supply its own
	JIRABaseURL  string `env:"JIRA_BASE_URL" validate:"required,url"`
	JIRAEmail    string `env:"JIRA_EMAIL" validate:"required,email"`
	JIRAAPIToken string `env:"JIRA_API_TOKEN" validate:"required,min=10"`

	// HTTP and rate limiting configuration
	RequestTimeout        time.Duration `env:"JIRA_REQUEST_TIMEOUT" default:"30s"`
	RateLimitRPS          float64       `env:"JIRA_RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst        int           `env:"JIRA_RATE_LIMIT_BURST" default:"20"`
	MaxConcurrentRequests int           `env:"JIRA_MAX_CONCURRENT_REQUESTS" default:"5"`

	// Report engine configuration
	CacheTTL          time.Duration `env:"REPORT_CACHE_TTL" default:"5m"`
	ReportConcurrency int           `env:"REPORT_CONCURRENCY" default:"10"`

	// Application configuration
	LogLevel    string `env:"LOG_LEVEL" validate:"oneof=debug info warn error" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" validate:"oneof=text json" default:"text"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Provider defines the interface for configuration management
// This enables dependency injection and easy testing
type Provider interface {
	Load() (*Config, error)
	Validate(*Config) error
	LoadFromEnv() (*Config, error)
}

// Loader implements the Provider interface
type Loader struct {
	envLoader EnvLoader
}

// EnvLoader defines interface for environment variable loading
// This allows for testing with mock environment variables
type EnvLoader interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
}

// OSEnvLoader implements EnvLoader using os package
type OSEnvLoader struct{}

func (o *OSEnvLoader) Getenv(key string) string {
	return os.Getenv(key)
}

func (o *OSEnvLoader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// NewLoader creates a new configuration loader
func NewLoader() Provider {
	return &Loader{
		envLoader: &OSEnvLoader{},
	}
}

// NewLoaderWithEnv creates a loader with custom environment loader (for testing)
func NewLoaderWithEnv(envLoader EnvLoader) Provider {
	return &Loader{
		envLoader: envLoader,
	}
}

// Load loads configuration from environment variables
func (l *Loader) Load() (*Config, error) {
	return l.LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func (l *Loader) LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Load JIRA credentials
	config.JIRABaseURL = l.envLoader.Getenv("JIRA_BASE_URL")
	config.JIRAEmail = l.envLoader.Getenv("JIRA_EMAIL")
	config.JIRAAPIToken = l.envLoader.Getenv("JIRA_API_TOKEN")

	// Load HTTP and rate limiting configuration with defaults
	config.RequestTimeout = l.getDurationWithDefault("JIRA_REQUEST_TIMEOUT", 30*time.Second)
	config.RateLimitRPS = l.getFloatWithDefault("JIRA_RATE_LIMIT_RPS", 10)
	config.RateLimitBurst = l.getIntWithDefault("JIRA_RATE_LIMIT_BURST", 20)
	config.MaxConcurrentRequests = l.getIntWithDefault("JIRA_MAX_CONCURRENT_REQUESTS", 5)

	// Load report engine configuration with defaults
	config.CacheTTL = l.getDurationWithDefault("REPORT_CACHE_TTL", 5*time.Minute)
	config.ReportConcurrency = l.getIntWithDefault("REPORT_CONCURRENCY", 10)

	// Load application configuration with defaults
	config.LogLevel = l.getEnvWithDefault("LOG_LEVEL", "info")
	config.LogFormat = l.getEnvWithDefault("LOG_FORMAT", "text")
	config.MetricsAddr = l.envLoader.Getenv("METRICS_ADDR")

	// Validate configuration
	if err := l.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (l *Loader) Validate(config *Config) error {
	var errors []string

	// Validate required JIRA credentials
	if config.JIRABaseURL == "" {
		errors = append(errors, "JIRA_BASE_URL is required")
	} else if err := l.validateURL(config.JIRABaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("JIRA_BASE_URL is invalid: %v", err))
	}

	if config.JIRAEmail == "" {
		errors = append(errors, "JIRA_EMAIL is required")
	} else if err := l.validateEmail(config.JIRAEmail); err != nil {
		errors = append(errors, fmt.Sprintf("JIRA_EMAIL is invalid: %v", err))
	}

	if config.JIRAAPIToken == "" {
		errors = append(errors, "JIRA_API_TOKEN is required")
	} else if len(config.JIRAAPIToken) < 10 {
		errors = append(errors, "JIRA_API_TOKEN must be at least 10 characters long")
	}

	// Validate HTTP and rate limiting configuration
	if config.RequestTimeout <= 0 {
		errors = append(errors, "JIRA_REQUEST_TIMEOUT must be positive")
	}
	if config.RateLimitRPS <= 0 {
		errors = append(errors, "JIRA_RATE_LIMIT_RPS must be positive")
	}
	if config.RateLimitBurst < 1 {
		errors = append(errors, "JIRA_RATE_LIMIT_BURST must be at least 1")
	}
	if config.MaxConcurrentRequests < 1 {
		errors = append(errors, "JIRA_MAX_CONCURRENT_REQUESTS must be at least 1")
	}

	// Validate report engine configuration
	if config.CacheTTL <= 0 {
		errors = append(errors, "REPORT_CACHE_TTL must be positive")
	}
	if config.ReportConcurrency < 1 {
		errors = append(errors, "REPORT_CONCURRENCY must be at least 1")
	}

	// Validate application configuration
	if err := l.validateLogLevel(config.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL is invalid: %v", err))
	}

	if err := l.validateLogFormat(config.LogFormat); err != nil {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT is invalid: %v", err))
	}

	if len(errors) > 0 {
		return &ValidationError{Errors: errors}
	}

	return nil
}

// ValidationError represents configuration validation errors
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Helper methods

func (l *Loader) getEnvWithDefault(key, defaultValue string) string {
	if value := l.envLoader.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (l *Loader) validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

func (l *Loader) validateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email must contain @ symbol")
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("email must have exactly one @ symbol")
	}
	if parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("email must have both local and domain parts")
	}
	return nil
}

func (l *Loader) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(validLevels, ", "))
}

func (l *Loader) validateLogFormat(format string) error {
	validFormats := []string{"text", "json"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(validFormats, ", "))
}

// getDurationWithDefault gets a duration from environment with fallback to default
func (l *Loader) getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := l.envLoader.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}

// getIntWithDefault gets an integer from environment with fallback to default
func (l *Loader) getIntWithDefault(key string, defaultValue int) int {
	valueStr := l.envLoader.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}

	return defaultValue
}

// getFloatWithDefault gets a float from environment with fallback to default
func (l *Loader) getFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr := l.envLoader.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}

	return defaultValue
}
