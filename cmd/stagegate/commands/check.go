// Package commands implements CLI command handlers for stagegate.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagegate-dev/stagegate/internal/config"
	"github.com/stagegate-dev/stagegate/internal/validators"
	"github.com/stagegate-dev/stagegate/pkg/observability"
	"github.com/stagegate-dev/stagegate/pkg/report"
	"github.com/stagegate-dev/stagegate/pkg/version"
)

// ErrValidationFailed is returned when a run produced error diagnostics, so
// the process exits non-zero without reprinting the report.
var ErrValidationFailed = errors.New("validation failed")

// CheckCommand holds flag state for the check command.
type CheckCommand struct {
	configPath     string
	erdPath        string
	openAPIPath    string
	stages         []int
	format         string
	output         string
	noColor        bool
	updateBaseline bool
}

// NewCheckCommand creates the stage validation command.
func NewCheckCommand() *cobra.Command {
	cc := &CheckCommand{}

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a generated project against its pipeline stage contracts",
		Long: `Validate a generated React/TypeScript project tree.

Runs the selected stage checkers (ERD document, entity scaffolding,
infrastructure, routing/layout, application shell) together with the module
export/import resolution engine, and reports every diagnostic found.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cc.run,
	}

	cmd.Flags().StringVarP(&cc.configPath, "config", "c", "", "Config file path (default: .stagegate.yaml in CWD or $HOME)")
	cmd.Flags().StringVar(&cc.erdPath, "erd", "", "ERD document path, relative to the project root")
	cmd.Flags().StringVar(&cc.openAPIPath, "openapi", "", "OpenAPI contract path, relative to the project root")
	cmd.Flags().IntSliceVarP(&cc.stages, "stages", "s", nil, "Stage numbers to validate (default: all five)")
	cmd.Flags().StringVarP(&cc.format, "format", "f", "", "Output format: console, json, yaml, html")
	cmd.Flags().StringVarP(&cc.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "Disable colored console output")
	cmd.Flags().BoolVar(&cc.updateBaseline, "update-baseline", false, "Record the current tree as the new drift baseline")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cc.configPath)
	if err != nil {
		return err
	}

	cc.applyOverrides(cmd, cfg, args)

	err = cfg.Validate()
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	providers, err := initCLIObservability(cfg, cmd)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	run, err := cc.execute(cmd.Context(), cfg, providers)
	if err != nil {
		return err
	}

	err = cc.writeReport(cmd.OutOrStdout(), &run, format, cfg)
	if err != nil {
		return err
	}

	if !run.Passed() {
		return fmt.Errorf("%w: %d error(s) across %d stage(s)", ErrValidationFailed, run.TotalErrors(), len(run.Stages))
	}

	return nil
}

// applyOverrides layers explicitly-set flags over the loaded config.
func (cc *CheckCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Root = args[0]
	}

	if cc.erdPath != "" {
		cfg.ERDPath = cc.erdPath
	}

	if cc.openAPIPath != "" {
		cfg.OpenAPIPath = cc.openAPIPath
	}

	if cmd.Flags().Changed("stages") {
		cfg.Stages = cc.stages
	}

	if cc.format != "" {
		cfg.Format = cc.format
	}

	if cc.noColor {
		cfg.Color = false
	}

	if cc.updateBaseline {
		cfg.Baseline.Update = true
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		cfg.Verbose = true
	}
}

func (cc *CheckCommand) execute(
	ctx context.Context, cfg *config.Config, providers observability.Providers,
) (report.Run, error) {
	in, err := validators.LoadInputs(*cfg, providers.Logger)
	if err != nil {
		return report.Run{}, err
	}

	runner, err := validators.NewRunner(validators.DefaultRegistry(), providers)
	if err != nil {
		return report.Run{}, err
	}

	return runner.Run(ctx, in, cfg.Stages)
}

func (cc *CheckCommand) writeReport(stdout io.Writer, run *report.Run, format report.Format, cfg *config.Config) error {
	out := stdout

	if cc.output != "" {
		file, err := os.Create(cc.output)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer file.Close()

		out = file
	}

	report.SetColor(cfg.Color && cc.output == "")

	return report.Write(out, run, format, cfg.Verbose)
}

func initCLIObservability(cfg *config.Config, cmd *cobra.Command) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeCLI
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.LogJSON = cfg.Observability.LogJSON
	obsCfg.DebugTrace = cfg.Observability.DebugTrace
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.LogLevel = parseLogLevel(cfg.Observability.LogLevel)

	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil && quiet {
		obsCfg.LogLevel = slog.LevelError
	}

	return observability.Init(obsCfg)
}

// parseLogLevel maps a level name onto a slog level, defaulting to info.
func parseLogLevel(name string) slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToUpper(name)))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
