package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const htmlChartHeight = "500px"

// WriteHTML renders the run as a standalone HTML page with a per-stage
// diagnostics chart.
func WriteHTML(out io.Writer, run *Run) error {
	page := components.NewPage()
	page.SetLayout(components.PageCenterLayout)
	page.PageTitle = fmt.Sprintf("stagegate: %s", run.Root)
	page.AddCharts(buildStageChart(run))

	err := page.Render(out)
	if err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	return nil
}

func buildStageChart(run *Run) *charts.Bar {
	labels := make([]string, len(run.Stages))
	errorData := make([]opts.BarData, len(run.Stages))
	warningData := make([]opts.BarData, len(run.Stages))
	checkData := make([]opts.BarData, len(run.Stages))

	for i := range run.Stages {
		stage := &run.Stages[i]
		labels[i] = fmt.Sprintf("stage %d", stage.Stage)
		errorData[i] = opts.BarData{Value: len(stage.Errors())}
		warningData[i] = opts.BarData{Value: len(stage.Warnings())}
		checkData[i] = opts.BarData{Value: stage.Checks}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: htmlChartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Validation Results",
			Subtitle: fmt.Sprintf("%d checks, %d errors, %d warnings", run.TotalChecks(), run.TotalErrors(), run.TotalWarnings()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Errors", errorData, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#e74c3c"}))
	bar.AddSeries("Warnings", warningData, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#f39c12"}))
	bar.AddSeries("Checks", checkData, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2ecc71"}))

	return bar
}
