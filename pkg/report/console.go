package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ConsoleWriter renders a run as colored, human-readable console output.
type ConsoleWriter struct {
	out     io.Writer
	verbose bool
}

// NewConsoleWriter creates a console renderer. When verbose is set, passing
// stages also list their check counts and warnings in full.
func NewConsoleWriter(out io.Writer, verbose bool) *ConsoleWriter {
	return &ConsoleWriter{out: out, verbose: verbose}
}

// SetColor toggles colored output globally.
func SetColor(enabled bool) {
	color.NoColor = !enabled //nolint:reassign // intentional override of library global
}

// Write renders the run.
func (w *ConsoleWriter) Write(run *Run) error {
	for i := range run.Stages {
		w.writeStage(&run.Stages[i])
	}

	w.writeSummary(run)

	return nil
}

func (w *ConsoleWriter) writeStage(stage *StageResult) {
	if stage.Passed() {
		color.New(color.FgGreen).Fprintf(w.out, "PASS  stage %d: %s (%d checks)\n", stage.Stage, stage.Name, stage.Checks)
	} else {
		color.New(color.FgRed).Fprintf(w.out, "FAIL  stage %d: %s\n", stage.Stage, stage.Name)
	}

	for _, diag := range stage.Errors() {
		color.New(color.FgRed).Fprintf(w.out, "  - %s\n", diag.String())
	}

	warnings := stage.Warnings()
	if len(warnings) > 0 && !w.verbose {
		color.New(color.FgYellow).Fprintf(w.out, "  %d warning(s), rerun with --verbose to list them\n", len(warnings))
		return
	}

	for _, diag := range warnings {
		color.New(color.FgYellow).Fprintf(w.out, "  - %s\n", diag.String())
	}
}

func (w *ConsoleWriter) writeSummary(run *Run) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w.out)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.AppendHeader(table.Row{"Stage", "Name", "Checks", "Errors", "Warnings", "Result"})

	for i := range run.Stages {
		stage := &run.Stages[i]

		result := "pass"
		if !stage.Passed() {
			result = "fail"
		}

		tbl.AppendRow(table.Row{
			stage.Stage,
			stage.Name,
			humanize.Comma(int64(stage.Checks)),
			len(stage.Errors()),
			len(stage.Warnings()),
			result,
		})
	}

	tbl.AppendFooter(table.Row{
		"", "total",
		humanize.Comma(int64(run.TotalChecks())),
		run.TotalErrors(),
		run.TotalWarnings(),
		"",
	})
	tbl.Render()

	fmt.Fprintf(w.out, "Validated %s in %s\n", run.Root, run.Duration.Round(runDurationPrecision))

	if run.Passed() {
		color.New(color.FgGreen).Fprintf(w.out, "All stages passed\n")
	} else {
		color.New(color.FgRed).Fprintf(w.out, "%d error(s) across %d stage(s)\n", run.TotalErrors(), len(run.Stages))
	}
}
