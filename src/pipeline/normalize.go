// Package pipeline turns a loosely-shaped prediction response into canonical
// records and derives the chart series, table rows and headline displays from them.
//
// Every derived value is recomputed from the latest Normalized result; nothing
// here keeps state between calls.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

// SchemaError reports a response that carried an explicit error field.
// Message is the server string, unmodified.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string { return e.Message }

// YearPolicy resolves the forecast year when the response omits it.
type YearPolicy struct {
	HorizonYears int
	FallbackYear int
}

// DefaultYearPolicy mirrors the service's +10 years / 2030 convention.
var DefaultYearPolicy = YearPolicy{HorizonYears: 10, FallbackYear: 2030}

// Normalized is the canonical form of one prediction response.
type Normalized struct {
	Records    []types.HistoricalRecord
	Prediction types.PredictionResult
}

// ForecastYear returns the predicted year: the explicit one when present, else
// the latest record year plus the horizon, else the fallback year.
func (n Normalized) ForecastYear(p YearPolicy) int {
	if n.Prediction.PredictedYear != nil {
		return *n.Prediction.PredictedYear
	}
	if len(n.Records) == 0 {
		return p.FallbackYear
	}
	max := n.Records[0].Year
	for _, r := range n.Records[1:] {
		if r.Year > max {
			max = r.Year
		}
	}
	return max + p.HorizonYears
}

// NormalizeJSON decodes body and normalizes it.
func NormalizeJSON(body []byte) (Normalized, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Normalized{}, fmt.Errorf("decode prediction response: %w", err)
	}
	return Normalize(raw)
}

// Normalize maps a decoded response of unknown shape into canonical records and
// a prediction. Missing or non-numeric fields become nil; only an explicit error
// field fails, with a *SchemaError.
func Normalize(raw map[string]any) (Normalized, error) {
	if v, ok := lookup(raw, errorKeys); ok && ErrorPresent(v) {
		return Normalized{}, &SchemaError{Message: errorText(v)}
	}

	out := Normalized{
		Prediction: types.PredictionResult{
			PredictedValue: floatPtr(raw, predictedValueKeys),
			PredictedYear:  intPtr(raw, predictedYearKeys),
			LastYearValue:  floatPtr(raw, lastYearKeys),
			ChangePercent:  floatPtr(raw, changePercentKeys),
			TrendLabel:     stringPtr(raw, trendKeys),
			Country:        stringPtr(raw, countryKeys),
			Unit:           stringPtr(raw, unitKeys),
		},
	}

	hv, ok := lookup(raw, historyKeys)
	if !ok {
		out.Records = []types.HistoricalRecord{}
		return out, nil
	}
	items, ok := hv.([]any)
	if !ok {
		logging.Debugf("[normalize] history is %T, treating as empty", hv)
		out.Records = []types.HistoricalRecord{}
		return out, nil
	}
	out.Records = normalizeRecords(items)
	return out, nil
}

func normalizeRecords(items []any) []types.HistoricalRecord {
	records := make([]types.HistoricalRecord, 0, len(items))
	seen := make(map[int]bool, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			logging.Debugf("[normalize] history[%d] is %T, skipped", i, it)
			continue
		}
		yv, ok := lookup(m, recordAliases.Year)
		if !ok {
			logging.Debugf("[normalize] history[%d] has no year, skipped", i)
			continue
		}
		year, ok := intValue(yv)
		if !ok {
			logging.Debugf("[normalize] history[%d] year %v is not an integer, skipped", i, yv)
			continue
		}
		if seen[year] {
			logging.Debugf("[normalize] history[%d] duplicate year %d, skipped", i, year)
			continue
		}
		seen[year] = true
		records = append(records, types.HistoricalRecord{
			Year:           year,
			CO2:            floatPtr(m, recordAliases.CO2),
			AvgTemperature: floatPtr(m, recordAliases.Temperature),
			EnergyUse:      floatPtr(m, recordAliases.Energy),
			GDP:            floatPtr(m, recordAliases.GDP),
			Population:     floatPtr(m, recordAliases.Population),
		})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records
}

// ErrorPresent reports whether an "error" field value signals a failure:
// a non-empty string, true, or any other non-null value.
func ErrorPresent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	default:
		return true
	}
}
