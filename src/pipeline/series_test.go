package pipeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

var nan = math.NaN()

func TestBuildSeries_ScenarioA(t *testing.T) {
	pair := BuildSeries(mustNormalize(t, scenarioA), DefaultYearPolicy)
	want := ChartSeriesPair{
		Labels:     []int{2018, 2019, 2029},
		Historical: []float64{0.40, 0.41, nan},
		Predicted:  []float64{nan, nan, 1.234},
	}
	if diff := cmp.Diff(want, pair, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSeries_ScenarioB_NoRecordsNoPrediction(t *testing.T) {
	pair := BuildSeries(mustNormalize(t, `{"historical": []}`), DefaultYearPolicy)
	want := ChartSeriesPair{
		Labels:     []int{2030},
		Historical: []float64{nan},
		Predicted:  []float64{nan},
	}
	if diff := cmp.Diff(want, pair, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSeries_ExplicitYearAndPolicy(t *testing.T) {
	n := mustNormalize(t, `{"year": 2040, "prediction": 2, "historical": [{"Year": 2000, "CO2": 1}]}`)
	if got := BuildSeries(n, DefaultYearPolicy).Labels; got[len(got)-1] != 2040 {
		t.Fatalf("explicit year ignored: %v", got)
	}
	n.Prediction.PredictedYear = nil
	custom := YearPolicy{HorizonYears: 5, FallbackYear: 2099}
	if got := BuildSeries(n, custom).Labels; got[len(got)-1] != 2005 {
		t.Fatalf("horizon policy ignored: %v", got)
	}
	empty := Normalized{}
	if got := BuildSeries(empty, custom).Labels; len(got) != 1 || got[0] != 2099 {
		t.Fatalf("fallback policy ignored: %v", got)
	}
}

// Length and null-placement invariants over random record sets.
func TestBuildSeries_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := Normalized{}
		count := rng.Intn(12)
		for i := 0; i < count; i++ {
			r := types.HistoricalRecord{Year: 1990 + i}
			if rng.Intn(4) != 0 {
				r.CO2 = types.Float(rng.Float64() * 10)
			}
			n.Records = append(n.Records, r)
		}
		if rng.Intn(2) == 0 {
			n.Prediction.PredictedValue = types.Float(rng.Float64())
		}
		pair := BuildSeries(n, DefaultYearPolicy)

		if len(pair.Labels) != count+1 || len(pair.Historical) != count+1 || len(pair.Predicted) != count+1 {
			t.Fatalf("length invariant broken: %d/%d/%d for %d records", len(pair.Labels), len(pair.Historical), len(pair.Predicted), count)
		}
		for i, r := range n.Records {
			if !IsNull(pair.Predicted[i]) {
				t.Fatalf("predicted[%d] should be null", i)
			}
			if r.CO2 == nil && !IsNull(pair.Historical[i]) {
				t.Fatalf("historical[%d] should be null for a nil record", i)
			}
			if r.CO2 != nil && pair.Historical[i] != *r.CO2 {
				t.Fatalf("historical[%d]=%v want %v", i, pair.Historical[i], *r.CO2)
			}
			if pair.Labels[i] != r.Year {
				t.Fatalf("label[%d]=%d want %d", i, pair.Labels[i], r.Year)
			}
		}
		last := pair.ForecastIndex()
		if !IsNull(pair.Historical[last]) {
			t.Fatalf("historical forecast slot must be null")
		}
		if pv := n.Prediction.PredictedValue; pv == nil {
			if !IsNull(pair.Predicted[last]) {
				t.Fatalf("missing prediction must leave forecast slot null")
			}
		} else if pair.Predicted[last] != *pv {
			t.Fatalf("forecast slot %v want %v", pair.Predicted[last], *pv)
		}
	}
}

func TestObservedRuns(t *testing.T) {
	pair := ChartSeriesPair{
		Labels:     []int{1, 2, 3, 4, 5, 6},
		Historical: []float64{1, 2, nan, 4, nan, nan},
		Predicted:  []float64{nan, nan, nan, nan, nan, 9},
	}
	want := [][2]int{{0, 2}, {3, 4}}
	if diff := cmp.Diff(want, pair.ObservedRuns()); diff != "" {
		t.Fatalf("runs mismatch:\n%s", diff)
	}
	if runs := (ChartSeriesPair{Historical: []float64{nan}}).ObservedRuns(); len(runs) != 0 {
		t.Fatalf("expected no runs, got %v", runs)
	}
	min, max, ok := pair.Extent()
	if !ok || min != 1 || max != 9 {
		t.Fatalf("extent %v %v %v", min, max, ok)
	}
	if _, _, ok := (ChartSeriesPair{Historical: []float64{nan}, Predicted: []float64{nan}}).Extent(); ok {
		t.Fatalf("all-null extent should not be ok")
	}
}
