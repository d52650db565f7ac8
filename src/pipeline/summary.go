package pipeline

import (
	"strconv"
	"strings"
)

// Display markers for the headline and tracker panels.
const (
	LoadingMarker = "Loading..."
	ErrorMarker   = "Error"
)

// Summary holds the headline prediction figures and the feature tracker taken
// from the latest observed year.
type Summary struct {
	Predicted string
	LastYear  string
	Change    string
	Trend     string

	Temp   string
	Energy string
	GDP    string
	Pop    string
}

// FillSummary returns a Summary with every display set to marker.
func FillSummary(marker string) Summary {
	return Summary{
		Predicted: marker, LastYear: marker, Change: marker, Trend: marker,
		Temp: marker, Energy: marker, GDP: marker, Pop: marker,
	}
}

// BuildSummary formats the headline and tracker displays.
func BuildSummary(n Normalized) Summary {
	p := n.Prediction
	s := Summary{
		Predicted: FormatFixed(p.PredictedValue, 3),
		LastYear:  FormatFixed(p.LastYearValue, 3),
		Change:    Unavailable,
		Trend:     Unavailable,
		Temp:      Unavailable,
		Energy:    Unavailable,
		GDP:       Unavailable,
		Pop:       Unavailable,
	}
	if p.ChangePercent != nil {
		s.Change = FormatPlain(p.ChangePercent) + "%"
	}
	if p.TrendLabel != nil && strings.TrimSpace(*p.TrendLabel) != "" {
		s.Trend = *p.TrendLabel
	}
	if len(n.Records) > 0 {
		last := n.Records[len(n.Records)-1]
		s.Temp = FormatFixed(last.AvgTemperature, 1)
		s.Energy = FormatPlain(last.EnergyUse)
		s.GDP = FormatFixed(last.GDP, 1)
		s.Pop = FormatFixed(last.Population, 1)
	}
	return s
}

// FormatManual renders the manual-form result line.
func FormatManual(pred *float64, unit string) string {
	if pred == nil {
		return "Predicted CO₂: N/A"
	}
	out := "Predicted CO₂: " + strconv.FormatFloat(*pred, 'f', 3, 64)
	if unit != "" {
		out += " " + unit
	}
	return out
}
