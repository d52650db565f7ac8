// Package charts owns the trend and comparison chart surfaces and the
// backends that draw them (PNG via go-chart, HTML via go-echarts).
package charts

import (
	"fmt"
	"strconv"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
)

// Marker shapes understood by the backends.
const (
	MarkerCircle    = "circle"
	MarkerRoundRect = "roundRect"
)

// SeriesStyle describes how one line series is drawn.
type SeriesStyle struct {
	Color      string
	FillColor  string
	Dashed     bool
	MarkerSize float64
	Marker     string
	Smooth     bool
}

// LineSeries is one named series aligned to TrendSpec.Labels; NaN entries are not drawn.
type LineSeries struct {
	Name   string
	Values []float64
	Style  SeriesStyle
}

// TrendSpec describes the observed-vs-forecast line chart.
type TrendSpec struct {
	Title    string
	XName    string
	YName    string
	Unit     string
	Labels   []int
	Observed LineSeries
	Forecast LineSeries
}

// NewTrendSpec builds the trend chart description for one country.
func NewTrendSpec(country string, pair pipeline.ChartSeriesPair, unit string) TrendSpec {
	forecastYear := 0
	if n := pair.Len(); n > 0 {
		forecastYear = pair.Labels[n-1]
	}
	return TrendSpec{
		Title:  fmt.Sprintf("CO₂ Emissions Trend for %s", country),
		XName:  "Year",
		YName:  "CO₂ Emissions (metric tons per capita)",
		Unit:   unit,
		Labels: pair.Labels,
		Observed: LineSeries{
			Name:   "Historical CO₂",
			Values: pair.Historical,
			Style: SeriesStyle{
				Color:      "#2b6fd6",
				FillColor:  "rgba(43,111,214,0.08)",
				MarkerSize: 4,
				Marker:     MarkerCircle,
				Smooth:     true,
			},
		},
		Forecast: LineSeries{
			Name:   fmt.Sprintf("Predicted CO₂ (%d)", forecastYear),
			Values: pair.Predicted,
			Style: SeriesStyle{
				Color:      "#1db6a8",
				Dashed:     true,
				MarkerSize: 8,
				Marker:     MarkerRoundRect,
			},
		},
	}
}

// Tooltip formats a hovered value with the unit suffix.
func (t TrendSpec) Tooltip(series string, v float64) string {
	if pipeline.IsNull(v) {
		return series
	}
	out := series + ": " + strconv.FormatFloat(v, 'f', 3, 64)
	if t.Unit != "" {
		out += " " + t.Unit
	}
	return out
}

// Bar is one entry of the comparison chart.
type Bar struct {
	Label string
	Value float64
	Color string
}

// ComparisonSpec describes the cross-country bar chart. Its values are static
// reference data from configuration, not from the live response.
type ComparisonSpec struct {
	Title string
	Note  string
	Label string
	YName string
	Bars  []Bar
}

// NewComparisonSpec builds the comparison chart from the static reference table.
func NewComparisonSpec(cmp config.Comparison) ComparisonSpec {
	spec := ComparisonSpec{
		Title: fmt.Sprintf("CO₂ Emissions Comparison (%d)", cmp.Year),
		Note:  cmp.Note,
		Label: fmt.Sprintf("Latest CO₂ Emissions (%d)", cmp.Year),
		YName: "CO₂ Emissions (metric tons)",
		Bars:  make([]Bar, 0, len(cmp.Entries)),
	}
	for _, e := range cmp.Entries {
		spec.Bars = append(spec.Bars, Bar{Label: e.Country, Value: e.Value, Color: e.Color})
	}
	return spec
}
