package cli

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/logging"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/report"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/tracker"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/config"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/metrics"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/ratelimit"
)

// BuildInfo contains build-time information
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var buildInfo BuildInfo

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "worklog-report",
	Short: "Build worklog reports from Jira Cloud time tracking data",
	Long: `Worklog Report - a reporting engine for Jira Cloud time tracking.

This tool aggregates worklog entries into per-epic, per-user and per-issue
time reports over a date range, scoped to you, a project, or a board. It
also covers the day-to-day surface around reporting: listing your tasks,
logging time, and browsing projects and boards.

Credentials and tuning come from the environment or a .env file:
  JIRA_BASE_URL, JIRA_EMAIL, JIRA_API_TOKEN   (required)
  REPORT_CACHE_TTL, REPORT_CONCURRENCY        (report engine)
  JIRA_RATE_LIMIT_RPS, JIRA_REQUEST_TIMEOUT   (HTTP behavior)
  METRICS_ADDR                                (optional Prometheus endpoint)`,
	Version: buildInfo.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(info BuildInfo) error {
	buildInfo = info
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to the .env file with Jira credentials")
}

// app bundles the wired services every command runs against.
type app struct {
	cfg     *config.Config
	log     logr.Logger
	metrics *metrics.Metrics
	tracker *tracker.Service
	reports *report.Service
	creds   client.Credentials
}

// newApp loads configuration and wires the client factory, tracker and
// report services. Command-line flags win over environment configuration.
func newApp(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")

	configLoader := config.NewDotEnvLoader(envFile)
	cfg, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr, registry); err != nil {
				log.Error(err, "metrics listener failed", "addr", cfg.MetricsAddr)
			}
		}()
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond:     cfg.RateLimitRPS,
		Burst:                 cfg.RateLimitBurst,
		MaxConcurrentRequests: cfg.MaxConcurrentRequests,
	})

	factory := client.NewFactory(limiter, log,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithMetrics(m),
	)

	trackerSvc := tracker.NewService(factory, log,
		tracker.WithCacheTTL(cfg.CacheTTL),
		tracker.WithMetrics(m),
	)

	reportSvc := report.NewService(factory, trackerSvc, log,
		report.WithCacheTTL(cfg.CacheTTL),
		report.WithFanOut(cfg.ReportConcurrency),
		report.WithMetrics(m),
	)

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		tracker: trackerSvc,
		reports: reportSvc,
		creds: client.Credentials{
			BaseURL:  cfg.JIRABaseURL,
			Email:    cfg.JIRAEmail,
			APIToken: cfg.JIRAAPIToken,
		},
	}, nil
}
