package pipeline

import "math"

// ChartSeriesPair aligns observed and forecast values to one label axis.
// NaN is the null marker: at each historical index only Historical may hold a
// value, and the final index holds the forecast in Predicted only, so the two
// series are never joined by a line.
type ChartSeriesPair struct {
	Labels     []int
	Historical []float64
	Predicted  []float64
}

// Null is the "no value" marker used in series arrays.
func Null() float64 { return math.NaN() }

// IsNull reports whether v is the null marker.
func IsNull(v float64) bool { return math.IsNaN(v) }

// Len returns the number of aligned slots.
func (p ChartSeriesPair) Len() int { return len(p.Labels) }

// ForecastIndex is the slot holding the predicted year.
func (p ChartSeriesPair) ForecastIndex() int { return len(p.Labels) - 1 }

// BuildSeries lays the records' years out as labels, appends the forecast year
// and fills both value arrays with null padding.
func BuildSeries(n Normalized, policy YearPolicy) ChartSeriesPair {
	size := len(n.Records) + 1
	pair := ChartSeriesPair{
		Labels:     make([]int, 0, size),
		Historical: make([]float64, 0, size),
		Predicted:  make([]float64, 0, size),
	}
	for _, r := range n.Records {
		pair.Labels = append(pair.Labels, r.Year)
		if r.CO2 != nil {
			pair.Historical = append(pair.Historical, *r.CO2)
		} else {
			pair.Historical = append(pair.Historical, Null())
		}
		pair.Predicted = append(pair.Predicted, Null())
	}

	pair.Labels = append(pair.Labels, n.ForecastYear(policy))
	pair.Historical = append(pair.Historical, Null())
	if v := n.Prediction.PredictedValue; v != nil {
		pair.Predicted = append(pair.Predicted, *v)
	} else {
		pair.Predicted = append(pair.Predicted, Null())
	}
	return pair
}

// ObservedRuns splits the historical values into contiguous non-null runs,
// returned as index ranges [start, end). Renderers draw each run separately so
// that a missing year is never bridged.
func (p ChartSeriesPair) ObservedRuns() [][2]int {
	var runs [][2]int
	start := -1
	for i, v := range p.Historical {
		if IsNull(v) {
			if start >= 0 {
				runs = append(runs, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(p.Historical)})
	}
	return runs
}

// Extent returns the min and max non-null value across both series. ok is false
// when every slot is null.
func (p ChartSeriesPair) Extent() (min, max float64, ok bool) {
	min, max = math.MaxFloat64, -math.MaxFloat64
	for _, vs := range [][]float64{p.Historical, p.Predicted} {
		for _, v := range vs {
			if IsNull(v) {
				continue
			}
			ok = true
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
