package telemetry

import (
	"context"

	"github.com/robalyx/tribunal/internal/setup/config"
	"github.com/uptrace/uptrace-go/uptrace"
)

// ConfigureTracing installs the Uptrace OpenTelemetry providers when tracing
// is enabled with a DSN. The returned function flushes and shuts them down.
func ConfigureTracing(serviceType ServiceType, debugCfg *config.Debug) func(context.Context) error {
	if !debugCfg.EnableTracing || debugCfg.UptraceDSN == "" {
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(debugCfg.UptraceDSN),
		uptrace.WithServiceName("tribunal-"+serviceType.String()),
	)

	return uptrace.Shutdown
}
