package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"
	"strings"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
)

// ErrClosed is returned when a disposed surface is used.
var ErrClosed = errors.New("chart surface closed")

// ImageSurface is a chart rendered to PNG bytes.
type ImageSurface struct {
	mu     sync.Mutex
	slot   Slot
	img    image.Image
	png    []byte
	closed bool
}

func (s *ImageSurface) Slot() Slot { return s.slot }

// Image returns the decoded chart.
func (s *ImageSurface) Image() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.img, nil
}

// PNG returns the encoded chart.
func (s *ImageSurface) PNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.png, nil
}

// Close drops the image buffers. Closing twice is an error.
func (s *ImageSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.img, s.png = nil, nil
	return nil
}

// PNGFactory draws charts with go-chart.
type PNGFactory struct {
	Width  int
	Height int
	// Hints adds a one-line caption under each chart.
	Hints bool
}

func (f PNGFactory) size() (int, int) {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = 1100
	}
	if h <= 0 {
		h = 360
	}
	return w, h
}

// Trend draws observed runs as separate lines and the forecast as a lone marker.
func (f PNGFactory) Trend(spec TrendSpec) (Surface, error) {
	w, h := f.size()
	series, labelled := trendSeries(spec)
	if len(series) == 0 {
		return f.fallback(SlotTrend, Placeholder(w, h, "No data available for "+strings.TrimPrefix(spec.Title, "CO₂ Emissions Trend for ")))
	}

	pair := pipeline.ChartSeriesPair{Labels: spec.Labels, Historical: spec.Observed.Values, Predicted: spec.Forecast.Values}
	_, maxV, _ := pair.Extent()
	yMax := zeroBasedMax(maxV)
	xMin, xMax := yearRange(spec.Labels)
	if note, ok := forecastNote(spec); ok {
		series = append(series, note)
		// room for the label right of the last point
		xMax += math.Max(1, (xMax-xMin)*0.15)
	}

	legendSrc := chart.Chart{Series: labelled}
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  spec.XName,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: yearTicks(spec.Labels, 12),
		},
		YAxis: chart.YAxis{
			Name:  spec.YName,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: niceTicks(0, yMax, 6),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&legendSrc)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		logging.Warnf("[charts] trend render error: %v; showing blank fallback", err)
		return f.fallback(SlotTrend, Placeholder(w, h, "Chart unavailable"))
	}
	return f.decode(SlotTrend, buf.Bytes(), "The unconnected marker is the model forecast; gaps are years without data.")
}

// Comparison draws the static reference values as a bar chart.
func (f PNGFactory) Comparison(spec ComparisonSpec) (Surface, error) {
	w, h := f.size()
	bars := make([]chart.Value, 0, len(spec.Bars))
	maxV := 0.0
	for _, b := range spec.Bars {
		if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
			continue
		}
		col := parseColor(b.Color, drawing.ColorBlue)
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})
		maxV = math.Max(maxV, b.Value)
	}
	if len(bars) == 0 {
		return f.fallback(SlotComparison, Placeholder(w, h, "No comparison data"))
	}
	yMax := zeroBasedMax(maxV)
	barWidth := (w - 160) / (2 * len(bars))
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 8 {
		barWidth = 8
	}
	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  spec.YName,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: niceTicks(0, yMax, 6),
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		logging.Warnf("[charts] comparison render error: %v; showing blank fallback", err)
		return f.fallback(SlotComparison, Placeholder(w, h, "Chart unavailable"))
	}
	return f.decode(SlotComparison, buf.Bytes(), spec.Note)
}

func (f PNGFactory) decode(slot Slot, raw []byte, hint string) (Surface, error) {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s chart: %w", slot, err)
	}
	if f.Hints && hint != "" {
		return f.fallback(slot, drawHint(img, hint))
	}
	return &ImageSurface{slot: slot, img: img, png: raw}, nil
}

// fallback encodes an image that was not produced by go-chart directly.
func (f PNGFactory) fallback(slot Slot, img image.Image) (Surface, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s chart: %w", slot, err)
	}
	return &ImageSurface{slot: slot, img: img, png: buf.Bytes()}, nil
}

// trendSeries returns every series to draw plus the subset that carries a
// legend entry (one per logical series).
func trendSeries(spec TrendSpec) (all, labelled []chart.Series) {
	obs := spec.Observed
	obsStyle := lineStyle(obs.Style)
	pair := pipeline.ChartSeriesPair{Labels: spec.Labels, Historical: obs.Values}
	for i, run := range pair.ObservedRuns() {
		xs := make([]float64, 0, run[1]-run[0])
		ys := make([]float64, 0, run[1]-run[0])
		for j := run[0]; j < run[1]; j++ {
			xs = append(xs, float64(spec.Labels[j]))
			ys = append(ys, obs.Values[j])
		}
		s := pointSeries(obs.Name, xs, ys, obsStyle)
		all = append(all, s)
		if i == 0 {
			labelled = append(labelled, s)
		}
	}

	fc := spec.Forecast
	fcStyle := markerStyle(fc.Style)
	first := true
	for i, v := range fc.Values {
		if pipeline.IsNull(v) || i >= len(spec.Labels) {
			continue
		}
		s := pointSeries(fc.Name, []float64{float64(spec.Labels[i])}, []float64{v}, fcStyle)
		all = append(all, s)
		if first {
			labelled = append(labelled, s)
			first = false
		}
	}
	return all, labelled
}

// forecastNote labels the first forecast point with its value and unit.
func forecastNote(spec TrendSpec) (chart.AnnotationSeries, bool) {
	for i, v := range spec.Forecast.Values {
		if pipeline.IsNull(v) || i >= len(spec.Labels) {
			continue
		}
		return chart.AnnotationSeries{
			Annotations: []chart.Value2{{
				XValue: float64(spec.Labels[i]),
				YValue: v,
				Label:  spec.Tooltip(spec.Forecast.Name, v),
			}},
		}, true
	}
	return chart.AnnotationSeries{}, false
}

// yearRange spans every label; the forecast year is not always the largest.
func yearRange(labels []int) (float64, float64) {
	lo, hi := labels[0], labels[0]
	for _, y := range labels[1:] {
		lo, hi = min(lo, y), max(hi, y)
	}
	if hi == lo {
		return float64(lo) - 1, float64(hi) + 1
	}
	return float64(lo), float64(hi)
}

// pointSeries pads single values to two X positions; go-chart rejects one-point series.
func pointSeries(name string, xs, ys []float64, st chart.Style) chart.ContinuousSeries {
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0] + 1e-3}
		ys = []float64{ys[0], ys[0]}
		st.DotWidth = math.Max(st.DotWidth, 4)
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st}
}

func lineStyle(s SeriesStyle) chart.Style {
	col := parseColor(s.Color, drawing.ColorBlue)
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    s.MarkerSize,
	}
	if s.FillColor != "" {
		st.FillColor = parseColor(s.FillColor, drawing.ColorTransparent)
	}
	if s.Dashed {
		st.StrokeDashArray = []float64{6, 4}
	}
	return st
}

// markerStyle renders points only.
func markerStyle(s SeriesStyle) chart.Style {
	col := parseColor(s.Color, drawing.ColorRed)
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 1,
		DotColor:    col,
		DotWidth:    s.MarkerSize,
	}
}

// parseColor accepts "#rrggbb", "#rgb", "rgb(r,g,b)" and "rgba(r,g,b,a)" with a in [0,1].
func parseColor(s string, def drawing.Color) drawing.Color {
	s = strings.TrimSpace(s)
	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		fn := strings.ToLower(strings.TrimSpace(s[:open]))
		parts := strings.Split(s[open+1:len(s)-1], ",")
		if !(fn == "rgb" && len(parts) == 3) && !(fn == "rgba" && len(parts) == 4) {
			return def
		}
		var rgb [3]uint8
		for i := range rgb {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return def
			}
			rgb[i] = uint8(v)
		}
		alpha := uint8(255)
		if len(parts) == 4 {
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil || a < 0 || a > 1 {
				return def
			}
			alpha = uint8(math.Round(a * 255))
		}
		return drawing.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return def
	}
	return drawing.ColorFromHex(hex)
}
