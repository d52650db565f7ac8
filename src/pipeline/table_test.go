package pipeline

import (
	"strconv"
	"testing"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

func TestBuildTable_ScenarioA(t *testing.T) {
	rows := BuildTable(mustNormalize(t, scenarioA), DefaultYearPolicy)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].IsPredicted() || rows[1].IsPredicted() {
		t.Fatalf("historical rows flagged as predicted")
	}
	last := rows[2]
	if !last.IsPredicted() || last.Year != 2029 {
		t.Fatalf("last row should be predicted 2029: %+v", last)
	}
	want := [NumColumns]string{"2029", "1.234", Unavailable, Unavailable, Unavailable, Unavailable}
	if last.Cells != want {
		t.Fatalf("predicted cells %v want %v", last.Cells, want)
	}
	if rows[0].Cells[ColCO2] != "0.400" || rows[1].Cells[ColCO2] != "0.410" {
		t.Fatalf("co2 precision: %v %v", rows[0].Cells, rows[1].Cells)
	}
	if rows[0].Cells[ColTemperature] != Unavailable {
		t.Fatalf("missing temperature should be unavailable, got %q", rows[0].Cells[ColTemperature])
	}
}

func TestBuildTable_ScenarioB_NoRows(t *testing.T) {
	rows := BuildTable(mustNormalize(t, `{"historical": []}`), DefaultYearPolicy)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestBuildTable_Formatting(t *testing.T) {
	n := Normalized{Records: []types.HistoricalRecord{{
		Year:           2015,
		CO2:            types.Float(0.41234),
		AvgTemperature: types.Float(24.06),
		EnergyUse:      types.Float(512.75),
		GDP:            types.Float(1500.04),
		Population:     types.Float(47.96),
	}}}
	rows := BuildTable(n, DefaultYearPolicy)
	want := [NumColumns]string{"2015", "0.412", "24.1", "512.75", "1500.0", "48.0"}
	if len(rows) != 1 || rows[0].Cells != want {
		t.Fatalf("cells %v want %v", rows, want)
	}
}

func TestBuildTable_EmissionRoundTripPrecision(t *testing.T) {
	for _, x := range []float64{0, 0.1, 1.23456, 9.5, 123.0005, 42} {
		n := Normalized{Records: []types.HistoricalRecord{{Year: 2000, CO2: types.Float(x)}}}
		got := BuildTable(n, DefaultYearPolicy)[0].Cells[ColCO2]
		if got != strconv.FormatFloat(x, 'f', 3, 64) {
			t.Fatalf("%v rendered as %q", x, got)
		}
		dot := len(got) - 4
		if dot < 0 || got[dot] != '.' {
			t.Fatalf("%v rendered without exactly 3 decimals: %q", x, got)
		}
	}
}

func TestBuildTable_PredictedRowOnlyForFiniteValue(t *testing.T) {
	n := mustNormalize(t, `{"historical": [{"Year": 2000, "CO2": 1}]}`)
	if rows := BuildTable(n, DefaultYearPolicy); len(rows) != 1 {
		t.Fatalf("no prediction should mean no predicted row: %+v", rows)
	}
	n.Prediction.PredictedValue = types.Float(nan)
	if rows := BuildTable(n, DefaultYearPolicy); len(rows) != 1 {
		t.Fatalf("NaN prediction should mean no predicted row: %+v", rows)
	}
	n.Prediction.PredictedValue = types.Float(2)
	n.Prediction.PredictedYear = types.Int(2030)
	rows := BuildTable(n, DefaultYearPolicy)
	if len(rows) != 2 || rows[1].Year != 2030 || rows[1].Cells[ColYear] != "2030" {
		t.Fatalf("predicted row should use explicit year: %+v", rows)
	}
}
