package config

import (
	"strings"
	"testing"
	"time"
)

// MockEnvLoader implements EnvLoader for testing
type MockEnvLoader struct {
	vars map[string]string
}

func NewMockEnvLoader(vars map[string]string) *MockEnvLoader {
	return &MockEnvLoader{vars: vars}
}

func (m *MockEnvLoader) Getenv(key string) string {
	return m.vars[key]
}

func (m *MockEnvLoader) LookupEnv(key string) (string, bool) {
	val, exists := m.vars[key]
	return val, exists
}

func validEnv() map[string]string {
	return map[string]string{
		"JIRA_BASE_URL":  "https://test.atlassian.net",
		"JIRA_EMAIL":     "test@example.com",
		"JIRA_API_TOKEN": "test-api-token-123",
	}
}

func TestConfig_LoadFromEnv_Success(t *testing.T) {
	envVars := validEnv()
	envVars["JIRA_REQUEST_TIMEOUT"] = "45s"
	envVars["JIRA_RATE_LIMIT_RPS"] = "2.5"
	envVars["REPORT_CACHE_TTL"] = "10m"
	envVars["REPORT_CONCURRENCY"] = "4"
	envVars["LOG_LEVEL"] = "debug"
	envVars["LOG_FORMAT"] = "json"
	envVars["METRICS_ADDR"] = ":9090"

	loader := NewLoaderWithEnv(NewMockEnvLoader(envVars))
	config, err := loader.Load()

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Verify JIRA credentials
	if config.JIRABaseURL != "https://test.atlassian.net" {
		t.Errorf("Expected JIRA_BASE_URL 'https://test.atlassian.net', got '%s'", config.JIRABaseURL)
	}
	if config.JIRAEmail != "test@example.com" {
		t.Errorf("Expected JIRA_EMAIL 'test@example.com', got '%s'", config.JIRAEmail)
	}
	if config.JIRAAPIToken != "test-api-token-123" {
		t.Errorf("Expected JIRA_API_TOKEN 'test-api-token-123', got '%s'", config.JIRAAPIToken)
	}

	// Verify tuning values
	if config.RequestTimeout != 45*time.Second {
		t.Errorf("Expected JIRA_REQUEST_TIMEOUT 45s, got %v", config.RequestTimeout)
	}
	if config.RateLimitRPS != 2.5 {
		t.Errorf("Expected JIRA_RATE_LIMIT_RPS 2.5, got %v", config.RateLimitRPS)
	}
	if config.CacheTTL != 10*time.Minute {
		t.Errorf("Expected REPORT_CACHE_TTL 10m, got %v", config.CacheTTL)
	}
	if config.ReportConcurrency != 4 {
		t.Errorf("Expected REPORT_CONCURRENCY 4, got %d", config.ReportConcurrency)
	}

	// Verify application configuration
	if config.LogLevel != "debug" {
		t.Errorf("Expected LOG_LEVEL 'debug', got '%s'", config.LogLevel)
	}
	if config.LogFormat != "json" {
		t.Errorf("Expected LOG_FORMAT 'json', got '%s'", config.LogFormat)
	}
	if config.MetricsAddr != ":9090" {
		t.Errorf("Expected METRICS_ADDR ':9090', got '%s'", config.MetricsAddr)
	}
}

func TestConfig_LoadFromEnv_WithDefaults(t *testing.T) {
	loader := NewLoaderWithEnv(NewMockEnvLoader(validEnv()))
	config, err := loader.Load()

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default JIRA_REQUEST_TIMEOUT 30s, got %v", config.RequestTimeout)
	}
	if config.RateLimitRPS != 10 {
		t.Errorf("Expected default JIRA_RATE_LIMIT_RPS 10, got %v", config.RateLimitRPS)
	}
	if config.RateLimitBurst != 20 {
		t.Errorf("Expected default JIRA_RATE_LIMIT_BURST 20, got %d", config.RateLimitBurst)
	}
	if config.MaxConcurrentRequests != 5 {
		t.Errorf("Expected default JIRA_MAX_CONCURRENT_REQUESTS 5, got %d", config.MaxConcurrentRequests)
	}
	if config.CacheTTL != 5*time.Minute {
		t.Errorf("Expected default REPORT_CACHE_TTL 5m, got %v", config.CacheTTL)
	}
	if config.ReportConcurrency != 10 {
		t.Errorf("Expected default REPORT_CONCURRENCY 10, got %d", config.ReportConcurrency)
	}
	if config.LogLevel != "info" {
		t.Errorf("Expected default LOG_LEVEL 'info', got '%s'", config.LogLevel)
	}
	if config.LogFormat != "text" {
		t.Errorf("Expected default LOG_FORMAT 'text', got '%s'", config.LogFormat)
	}
	if config.MetricsAddr != "" {
		t.Errorf("Expected METRICS_ADDR to default to empty, got '%s'", config.MetricsAddr)
	}
}

func TestConfig_LoadFromEnv_MalformedTuningValuesFallBack(t *testing.T) {
	envVars := validEnv()
	envVars["JIRA_REQUEST_TIMEOUT"] = "soon"
	envVars["JIRA_RATE_LIMIT_RPS"] = "fast"
	envVars["REPORT_CONCURRENCY"] = "many"

	loader := NewLoaderWithEnv(NewMockEnvLoader(envVars))
	config, err := loader.Load()

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.RequestTimeout != 30*time.Second {
		t.Errorf("Expected fallback JIRA_REQUEST_TIMEOUT 30s, got %v", config.RequestTimeout)
	}
	if config.RateLimitRPS != 10 {
		t.Errorf("Expected fallback JIRA_RATE_LIMIT_RPS 10, got %v", config.RateLimitRPS)
	}
	if config.ReportConcurrency != 10 {
		t.Errorf("Expected fallback REPORT_CONCURRENCY 10, got %d", config.ReportConcurrency)
	}
}

func TestConfig_Validation_MissingRequired(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected string
	}{
		{
			name:     "missing JIRA_BASE_URL",
			envVars:  map[string]string{"JIRA_EMAIL": "test@example.com", "JIRA_API_TOKEN": "test-token-123"},
			expected: "JIRA_BASE_URL is required",
		},
		{
			name:     "missing JIRA_EMAIL",
			envVars:  map[string]string{"JIRA_BASE_URL": "https://test.atlassian.net", "JIRA_API_TOKEN": "test-token-123"},
			expected: "JIRA_EMAIL is required",
		},
		{
			name:     "missing JIRA_API_TOKEN",
			envVars:  map[string]string{"JIRA_BASE_URL": "https://test.atlassian.net", "JIRA_EMAIL": "test@example.com"},
			expected: "JIRA_API_TOKEN is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoaderWithEnv(NewMockEnvLoader(tt.envVars))
			_, err := loader.Load()

			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected error to contain '%s', got: %v", tt.expected, err)
			}
		})
	}
}

func TestConfig_Validation_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		expected string
	}{
		{
			name:     "invalid URL",
			override: map[string]string{"JIRA_BASE_URL": "not-a-url"},
			expected: "JIRA_BASE_URL is invalid",
		},
		{
			name:     "invalid email",
			override: map[string]string{"JIRA_EMAIL": "not-an-email"},
			expected: "JIRA_EMAIL is invalid",
		},
		{
			name:     "short API token",
			override: map[string]string{"JIRA_API_TOKEN": "short"},
			expected: "JIRA_API_TOKEN must be at least 10 characters long",
		},
		{
			name:     "zero rate limit burst",
			override: map[string]string{"JIRA_RATE_LIMIT_BURST": "0"},
			expected: "JIRA_RATE_LIMIT_BURST must be at least 1",
		},
		{
			name:     "negative rate limit rps",
			override: map[string]string{"JIRA_RATE_LIMIT_RPS": "-1"},
			expected: "JIRA_RATE_LIMIT_RPS must be positive",
		},
		{
			name:     "zero max concurrent requests",
			override: map[string]string{"JIRA_MAX_CONCURRENT_REQUESTS": "0"},
			expected: "JIRA_MAX_CONCURRENT_REQUESTS must be at least 1",
		},
		{
			name:     "negative cache ttl",
			override: map[string]string{"REPORT_CACHE_TTL": "-5m"},
			expected: "REPORT_CACHE_TTL must be positive",
		},
		{
			name:     "zero report concurrency",
			override: map[string]string{"REPORT_CONCURRENCY": "0"},
			expected: "REPORT_CONCURRENCY must be at least 1",
		},
		{
			name:     "invalid log level",
			override: map[string]string{"LOG_LEVEL": "invalid"},
			expected: "LOG_LEVEL is invalid",
		},
		{
			name:     "invalid log format",
			override: map[string]string{"LOG_FORMAT": "invalid"},
			expected: "LOG_FORMAT is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envVars := validEnv()
			for k, v := range tt.override {
				envVars[k] = v
			}

			loader := NewLoaderWithEnv(NewMockEnvLoader(envVars))
			_, err := loader.Load()

			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected error to contain '%s', got: %v", tt.expected, err)
			}
		})
	}
}

func TestConfig_Validation_MultipleErrors(t *testing.T) {
	loader := NewLoaderWithEnv(NewMockEnvLoader(map[string]string{}))
	_, err := loader.Load()

	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	errorMsg := err.Error()

	expectedErrors := []string{
		"JIRA_BASE_URL is required",
		"JIRA_EMAIL is required",
		"JIRA_API_TOKEN is required",
	}

	for _, expected := range expectedErrors {
		if !strings.Contains(errorMsg, expected) {
			t.Errorf("Expected error to contain '%s', got: %v", expected, err)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	errors := []string{
		"JIRA_BASE_URL is required",
		"JIRA_EMAIL is invalid",
	}

	err := &ValidationError{Errors: errors}
	errorMsg := err.Error()

	expected := "configuration validation failed:\n  - JIRA_BASE_URL is required\n  - JIRA_EMAIL is invalid"
	if errorMsg != expected {
		t.Errorf("Expected error message:\n%s\nGot:\n%s", expected, errorMsg)
	}
}

func TestURL_Validation(t *testing.T) {
	loader := &Loader{}

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://test.atlassian.net", false},
		{"valid http", "http://test.atlassian.net", false},
		{"missing scheme", "test.atlassian.net", true},
		{"invalid scheme", "ftp://test.atlassian.net", true},
		{"missing host", "https://", true},
		{"invalid format", "not-a-url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.validateURL(tt.url)
			hasErr := err != nil

			if hasErr != tt.wantErr {
				t.Errorf("validateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmail_Validation(t *testing.T) {
	loader := &Loader{}

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "test@example.com", false},
		{"valid email with subdomain", "user@mail.example.com", false},
		{"missing @", "testexample.com", true},
		{"multiple @", "test@@example.com", true},
		{"missing local part", "@example.com", true},
		{"missing domain", "test@", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.validateEmail(tt.email)
			hasErr := err != nil

			if hasErr != tt.wantErr {
				t.Errorf("validateEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
