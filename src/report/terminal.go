// Package report renders a prediction outside the desktop viewer: a styled
// terminal summary and the HTML fragment embedded in exported chart pages.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/charts"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/session"
)

const (
	colorObserved  = lipgloss.Color("#2b6fd6")
	colorPredicted = lipgloss.Color("#1db6a8")
	colorError     = lipgloss.Color("#c0392b")
	colorDim       = lipgloss.Color("#6c7086")
	colorTrack     = lipgloss.Color("#313244")
)

// PredictedMarker is appended to the year cell of the forecast row.
const PredictedMarker = " ▸ forecast"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	predStyle   = cellStyle.Italic(true).Foreground(colorPredicted)
	errStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// Terminal renders the headline, tracker, trend sparkline and table for snap.
func Terminal(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("CO₂ prediction: %s", snap.Country)))
	b.WriteString("\n")
	if snap.State == session.Failed {
		b.WriteString(errStyle.Render("❌ " + snap.Message))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(Headline(snap.Summary, snap.Unit))
	b.WriteString("\n")
	if line := Sparkline(snap.Series.Historical, 40); line != "" {
		b.WriteString(labelStyle.Render("trend  ") + line + "\n")
	}
	b.WriteString(Table(snap.Rows))
	b.WriteString("\n")
	return b.String()
}

// Headline lays out the summary figures on two lines.
func Headline(s pipeline.Summary, unit string) string {
	kv := func(k, v string) string { return labelStyle.Render(k+": ") + v }
	top := strings.Join([]string{
		kv("Predicted", s.Predicted+" "+unit),
		kv("Last year", s.LastYear),
		kv("Change", s.Change),
		kv("Trend", s.Trend),
	}, "   ")
	tracker := strings.Join([]string{
		kv("Temp", s.Temp),
		kv("Energy", s.Energy),
		kv("GDP", s.GDP),
		kv("Population", s.Pop),
	}, "   ")
	return top + "\n" + tracker
}

// Table renders the rows with the forecast row italic and marked.
func Table(rows []pipeline.Row) string {
	if len(rows) == 0 {
		return labelStyle.Render("  No data available")
	}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells := append([]string(nil), r.Cells[:]...)
		if r.IsPredicted() {
			cells[pipeline.ColYear] += PredictedMarker
		}
		data = append(data, cells)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(pipeline.ColumnTitles[:]...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row].IsPredicted():
				return predStyle
			}
			return cellStyle
		})
	return t.Render()
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws the observed values; missing years are left blank.
func Sparkline(values []float64, w int) string {
	if len(values) == 0 || w < 1 {
		return ""
	}
	if len(values) > w {
		step := float64(len(values)) / float64(w)
		sampled := make([]float64, w)
		for i := 0; i < w; i++ {
			idx := int(float64(i) * step)
			if idx >= len(values) {
				idx = len(values) - 1
			}
			sampled[i] = values[idx]
		}
		values = sampled
	}
	first := true
	var minV, maxV float64
	for _, v := range values {
		if pipeline.IsNull(v) {
			continue
		}
		if first || v < minV {
			minV = v
		}
		if first || v > maxV {
			maxV = v
		}
		first = false
	}
	if first {
		return ""
	}
	rng := maxV - minV
	if rng == 0 {
		rng = 1
	}
	var sb strings.Builder
	for _, v := range values {
		if pipeline.IsNull(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := int((v - minV) / rng * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		sb.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(colorObserved).Render(sb.String())
}

// Bars renders the comparison reference values as horizontal bars.
func Bars(spec charts.ComparisonSpec, maxBarW, labelW int) string {
	if len(spec.Bars) == 0 {
		return labelStyle.Render("  No comparison data")
	}
	if maxBarW < 4 {
		maxBarW = 4
	}
	maxVal := 0.0
	for _, b := range spec.Bars {
		maxVal = max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	lines := []string{titleStyle.Render(spec.Title)}
	for _, item := range spec.Bars {
		col := lipgloss.Color(item.Color)
		barLen := int(item.Value / maxVal * float64(maxBarW))
		if barLen < 1 && item.Value > 0 {
			barLen = 1
		}
		bar := lipgloss.NewStyle().Foreground(col).Render(strings.Repeat("█", barLen))
		track := lipgloss.NewStyle().Foreground(colorTrack).Render(strings.Repeat("░", maxBarW-barLen))
		value := lipgloss.NewStyle().Foreground(col).Bold(true).Render(fmt.Sprintf("%.2f", item.Value))
		lines = append(lines, fmt.Sprintf("  %s %s%s  %s", labelStyle.Width(labelW).Render(item.Label), bar, track, value))
	}
	if spec.Note != "" {
		lines = append(lines, labelStyle.Render("  "+spec.Note))
	}
	return strings.Join(lines, "\n")
}
