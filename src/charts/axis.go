package charts

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// zeroBasedMax returns the upper bound for an axis that starts at zero: v plus
// 5% headroom, rounded up to 1, 2, 2.5 or 5 times a power of ten.
func zeroBasedMax(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 1
	}
	target := v * 1.05
	mag := math.Pow(10, math.Floor(math.Log10(target)))
	for _, m := range []float64{1, 2, 2.5, 5} {
		if m*mag >= target {
			return m * mag
		}
	}
	return 10 * mag
}

// niceTicks generates up to n tick marks between [min, max] using 1, 2, 2.5, 5 steps.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var ticks []chart.Tick
	for v := start; v <= end+bestStep/2; v += bestStep {
		r := math.Round(v*1e6) / 1e6
		ticks = append(ticks, chart.Tick{Value: r, Label: formatTick(r)})
	}
	return ticks
}

// formatTick keeps labels compact at every magnitude.
func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1 || av == 0:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// yearTicks labels every year when they fit, otherwise every k-th year; the
// first and last labels are always kept.
func yearTicks(labels []int, maxTicks int) []chart.Tick {
	if len(labels) == 0 {
		return nil
	}
	if maxTicks < 2 {
		maxTicks = 2
	}
	step := (len(labels) + maxTicks - 1) / maxTicks
	if step < 1 {
		step = 1
	}
	ticks := make([]chart.Tick, 0, maxTicks+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(labels[i]), Label: strconv.Itoa(labels[i])})
	}
	if last := labels[len(labels)-1]; ticks[len(ticks)-1].Value != float64(last) {
		ticks = append(ticks, chart.Tick{Value: float64(last), Label: strconv.Itoa(last)})
	}
	return ticks
}
