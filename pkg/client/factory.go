package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/andygrunwald/go-jira"
	"github.com/go-logr/logr"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/metrics"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/ratelimit"
)

// Connector builds an authenticated Client for a set of credentials.
// Services depend on this interface so tests can hand back mock clients.
type Connector interface {
	Connect(creds Credentials) (Client, error)
}

// Factory builds JIRAClients that share one rate limiter, one logger, and
// one metrics registry. Clients themselves are cheap; callers may connect
// per request or hold one client per tenant.
type Factory struct {
	limiter ratelimit.Limiter
	timeout time.Duration
	log     logr.Logger
	metrics *metrics.Metrics
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) FactoryOption {
	return func(f *Factory) {
		f.timeout = timeout
	}
}

// WithMetrics attaches API instrumentation to every client the factory
// builds. A nil Metrics disables instrumentation.
func WithMetrics(m *metrics.Metrics) FactoryOption {
	return func(f *Factory) {
		f.metrics = m
	}
}

// NewFactory creates a client factory. All clients it connects share the
// given limiter so one tenant's fan-out cannot starve another's requests.
func NewFactory(limiter ratelimit.Limiter, log logr.Logger, opts ...FactoryOption) *Factory {
	f := &Factory{
		limiter: limiter,
		timeout: 30 * time.Second,
		log:     log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect validates the credentials and builds an authenticated client.
// Validation is purely structural; the first CurrentUser call is the
// authentication probe.
func (f *Factory) Connect(creds Credentials) (Client, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	// Basic auth wraps the rate-limited transport so every request pays
	// the limiter before it reaches the wire.
	transport := &jira.BasicAuthTransport{
		Username:  creds.Email,
		Password:  creds.APIToken,
		Transport: ratelimit.NewTransport(nil, f.limiter),
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
	}

	jiraClient, err := jira.NewClient(httpClient, creds.BaseURL)
	if err != nil {
		return nil, &APIError{
			Type:    ErrorTypeConnection,
			Message: "failed to create Jira client",
			Err:     err,
		}
	}

	return &JIRAClient{
		jira:    jiraClient,
		http:    httpClient,
		log:     f.log,
		metrics: f.metrics,
	}, nil
}

func validateCredentials(creds Credentials) error {
	if creds.BaseURL == "" {
		return NewInvalidInputError("base URL cannot be empty")
	}
	parsed, err := url.Parse(creds.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return NewInvalidInputError("base URL must be an absolute http(s) URL")
	}
	if creds.Email == "" {
		return NewInvalidInputError("email cannot be empty")
	}
	if creds.APIToken == "" {
		return NewInvalidInputError("API token cannot be empty")
	}
	return nil
}
