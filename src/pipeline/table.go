package pipeline

import (
	"math"
	"strconv"
)

// Unavailable is shown wherever an attribute is null.
const Unavailable = "—"

// RowKind separates observed rows from the forecast row.
type RowKind int

const (
	RowObserved RowKind = iota
	RowPredicted
)

// Column order of Row.Cells.
const (
	ColYear = iota
	ColCO2
	ColTemperature
	ColEnergy
	ColGDP
	ColPopulation
	NumColumns
)

// ColumnTitles are the table headers in Cells order.
var ColumnTitles = [NumColumns]string{"Year", "CO₂ (t/capita)", "Avg Temp (°C)", "Energy Use", "GDP", "Population"}

// Row is one display row of the data table.
type Row struct {
	Kind  RowKind
	Year  int
	Cells [NumColumns]string
}

// IsPredicted reports whether the row is the forecast rather than an observation.
func (r Row) IsPredicted() bool { return r.Kind == RowPredicted }

// BuildTable returns one row per record in chronological order, followed by a
// single predicted row when the forecast value is a finite number.
func BuildTable(n Normalized, policy YearPolicy) []Row {
	rows := make([]Row, 0, len(n.Records)+1)
	for _, r := range n.Records {
		rows = append(rows, Row{
			Kind: RowObserved,
			Year: r.Year,
			Cells: [NumColumns]string{
				ColYear:        strconv.Itoa(r.Year),
				ColCO2:         FormatFixed(r.CO2, 3),
				ColTemperature: FormatFixed(r.AvgTemperature, 1),
				ColEnergy:      FormatPlain(r.EnergyUse),
				ColGDP:         FormatFixed(r.GDP, 1),
				ColPopulation:  FormatFixed(r.Population, 1),
			},
		})
	}

	pv := n.Prediction.PredictedValue
	if pv == nil || math.IsNaN(*pv) || math.IsInf(*pv, 0) {
		return rows
	}
	year := n.ForecastYear(policy)
	pred := Row{Kind: RowPredicted, Year: year}
	for i := range pred.Cells {
		pred.Cells[i] = Unavailable
	}
	pred.Cells[ColYear] = strconv.Itoa(year)
	pred.Cells[ColCO2] = FormatFixed(pv, 3)
	return append(rows, pred)
}

// FormatFixed renders v with the given number of decimals, or Unavailable.
func FormatFixed(v *float64, decimals int) string {
	if v == nil {
		return Unavailable
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// FormatPlain renders v in its shortest exact form, or Unavailable.
func FormatPlain(v *float64) string {
	if v == nil {
		return Unavailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
