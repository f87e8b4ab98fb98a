package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// stageNames labels the first evolution stages.
var stageNames = []string{"Basic", "Stage 1", "Stage 2"}

// StageLabel returns the display label of a stage.
func StageLabel(stage int) string {
	if stage >= 0 && stage < len(stageNames) {
		return stageNames[stage]
	}
	return fmt.Sprintf("Stage %d", stage)
}

// ReportData is the input of a collection report.
type ReportData struct {
	Entries  []models.CaughtEntry
	Attempts []models.StageSummary
}

// CountsByPokemon returns one point per entry with its stacked count.
func CountsByPokemon(entries []models.CaughtEntry) []DataPoint {
	points := make([]DataPoint, len(entries))
	for i, e := range entries {
		points[i] = DataPoint{Label: e.Name, Value: float64(e.Count)}
	}
	return points
}

// CountsByStage sums entry counts per stage, ordered by stage.
func CountsByStage(entries []models.CaughtEntry) []DataPoint {
	maxStage := -1
	for _, e := range entries {
		maxStage = max(maxStage, e.Stage)
	}

	totals := make([]int, maxStage+1)
	for _, e := range entries {
		totals[e.Stage] += e.Count
	}

	points := make([]DataPoint, 0, len(totals))
	for stage, total := range totals {
		if total == 0 {
			continue
		}
		points = append(points, DataPoint{Label: StageLabel(stage), Value: float64(total)})
	}
	return points
}

// SuccessRates returns the catch success percentage per stage.
func SuccessRates(summaries []models.StageSummary) []DataPoint {
	points := make([]DataPoint, 0, len(summaries))
	for _, s := range summaries {
		if s.Attempts == 0 {
			continue
		}
		points = append(points, DataPoint{
			Label: StageLabel(s.Stage),
			Value: float64(s.Successes) * 100 / float64(s.Attempts),
		})
	}
	return points
}

// RenderCollectionReport writes an HTML page with the collection charts.
func RenderCollectionReport(w io.Writer, data ReportData, config ChartConfig) error {
	page := components.NewPage()
	page.PageTitle = "Pokémon Collection"

	byPokemon := config
	byPokemon.Title = "Caught Pokémon"
	byPokemon.Subtitle = fmt.Sprintf("%d distinct forms", len(data.Entries))
	page.AddCharts(NewBarChart("Count", CountsByPokemon(data.Entries), byPokemon))

	byStage := config
	byStage.Title = "By Evolution Stage"
	page.AddCharts(NewPieChart("Stage", CountsByStage(data.Entries), byStage))

	if rates := SuccessRates(data.Attempts); len(rates) > 0 {
		success := config
		success.Title = "Catch Success Rate (%)"
		page.AddCharts(NewBarChart("Success %", rates, success))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteCollectionReport renders the report to outputPath.
func WriteCollectionReport(outputPath string, data ReportData, config ChartConfig) error {
	return renderToFile(outputPath, func(w io.Writer) error {
		return RenderCollectionReport(w, data, config)
	})
}
