// Package observability provides structured logging, tracing context, and
// metrics for the lineforge versioning core and its CLI front end.
package observability

import "log/slog"

// AppMode identifies how the module is being driven.
type AppMode string

const (
	// ModeCLI is a one-shot CLI invocation.
	ModeCLI AppMode = "cli"
	// ModeLibrary is an in-process embedding (no process-lifetime owner).
	ModeLibrary AppMode = "library"
)

const (
	// defaultServiceName is the default OTel resource service name.
	defaultServiceName = "lineforge"
)

// Config holds observability configuration for Init.
//
// Unlike a network-facing service, the versioning core has no collector to
// export to: traces and metrics stay in-process. Metrics are made visible by
// scraping the Prometheus handler returned from PrometheusHandler; traces
// exist only to correlate log lines within a single session via trace/span
// ids, which is why there is no OTLP endpoint option here.
type Config struct {
	// ServiceName is the OTel resource service name. Defaults to "lineforge".
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is a free-form deployment label (e.g. "dev", "ci").
	Environment string

	// Mode identifies how the module was invoked.
	Mode AppMode

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON selects JSON log output; otherwise logs are text-formatted.
	LogJSON bool
}

// DefaultConfig returns a Config suitable for a standalone CLI invocation.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		Mode:        ModeCLI,
		LogLevel:    slog.LevelInfo,
	}
}

func (c Config) serviceName() string {
	if c.ServiceName == "" {
		return defaultServiceName
	}

	return c.ServiceName
}
