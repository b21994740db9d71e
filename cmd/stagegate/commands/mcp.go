package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stagegate-dev/stagegate/internal/mcpserver"
	"github.com/stagegate-dev/stagegate/internal/validators"
	"github.com/stagegate-dev/stagegate/pkg/observability"
	"github.com/stagegate-dev/stagegate/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		debug           bool
		diagnosticsAddr string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes stage validation as a tool that AI agents can discover
and invoke:
  - stagegate_validate: Validate a generated project tree against its ERD
    document and OpenAPI contract, stage by stage`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			providers, err := initMCPObservability(debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			if diagnosticsAddr != "" {
				diag, diagErr := observability.NewDiagnosticsServer(diagnosticsAddr)
				if diagErr != nil {
					return diagErr
				}

				defer func() {
					closeErr := diag.Close()
					if closeErr != nil {
						providers.Logger.Warn("diagnostics server close failed", "error", closeErr)
					}
				}()

				providers.Logger.Info("diagnostics server listening", "addr", diag.Addr())
			}

			runner, err := validators.NewRunner(validators.DefaultRegistry(), providers)
			if err != nil {
				return err
			}

			srv, err := mcpserver.NewServer(mcpserver.ServerDeps{
				Logger: providers.Logger,
				Runner: runner,
				Tracer: providers.Tracer,
			})
			if err != nil {
				return err
			}

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&diagnosticsAddr, "diagnostics-addr", "",
		"Serve /healthz, /readyz, and /metrics on this address (empty = disabled)")

	return cmd
}

func initMCPObservability(debug bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	return observability.Init(cfg)
}
