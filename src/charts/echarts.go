package charts

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
)

// echartsNull is how ECharts marks a missing value in a data array.
const echartsNull = "-"

// HTMLSurface is an interactive ECharts chart.
type HTMLSurface struct {
	mu      sync.Mutex
	slot    Slot
	charter components.Charter
	html    []byte
	closed  bool
}

func (s *HTMLSurface) Slot() Slot { return s.slot }

// HTML returns the standalone page for this chart.
func (s *HTMLSurface) HTML() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.html, nil
}

func (s *HTMLSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.charter, s.html = nil, nil
	return nil
}

// HTMLFactory draws charts with go-echarts.
type HTMLFactory struct {
	Width  string
	Height string
}

func (f HTMLFactory) init(title string) opts.Initialization {
	w, h := f.Width, f.Height
	if w == "" {
		w = "100%"
	}
	if h == "" {
		h = "400px"
	}
	return opts.Initialization{PageTitle: title, Width: w, Height: h}
}

// Trend builds a line chart with the historical and forecast series on one
// category axis. Nulls stay as gaps.
func (f HTMLFactory) Trend(spec TrendSpec) (Surface, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(f.init(spec.Title)),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis", Formatter: tooltipFormatter(spec.Unit)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XName, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YName, Type: "value", Min: 0}),
		charts.WithGridOpts(opts.Grid{Left: "8%", Right: "6%", Bottom: "12%", Top: "80"}),
	)

	labels := make([]string, len(spec.Labels))
	for i, y := range spec.Labels {
		labels[i] = strconv.Itoa(y)
	}
	line.SetXAxis(labels)

	obs := spec.Observed
	obsOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(obs.Style.Smooth), ShowSymbol: opts.Bool(true), Symbol: obs.Style.Marker}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: obs.Style.Color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: obs.Style.Color, Width: 2}),
	}
	if obs.Style.FillColor != "" {
		obsOpts = append(obsOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Color: obs.Style.FillColor, Opacity: opts.Float(0.2)}))
	}
	line.AddSeries(obs.Name, lineData(obs.Values, "", 0), obsOpts...)

	fc := spec.Forecast
	lineType := "solid"
	if fc.Style.Dashed {
		lineType = "dashed"
	}
	line.AddSeries(fc.Name, lineData(fc.Values, fc.Style.Marker, int(fc.Style.MarkerSize)),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: fc.Style.Marker}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: fc.Style.Color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: fc.Style.Color, Type: lineType, Width: 2}),
	)

	return f.finish(SlotTrend, line, func(w io.Writer) error { return line.Render(w) })
}

// Comparison builds the reference bar chart.
func (f HTMLFactory) Comparison(spec ComparisonSpec) (Surface, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(f.init(spec.Title)),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Note}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YName, Type: "value", Min: 0}),
		charts.WithGridOpts(opts.Grid{Left: "8%", Right: "6%", Bottom: "12%", Top: "80"}),
	)
	labels := make([]string, 0, len(spec.Bars))
	data := make([]opts.BarData, 0, len(spec.Bars))
	for _, b := range spec.Bars {
		labels = append(labels, b.Label)
		data = append(data, opts.BarData{Name: b.Label, Value: b.Value, ItemStyle: &opts.ItemStyle{Color: b.Color}})
	}
	bar.SetXAxis(labels)
	bar.AddSeries(spec.Label, data, charts.WithBarChartOpts(opts.BarChart{BarGap: "10%"}))

	return f.finish(SlotComparison, bar, func(w io.Writer) error { return bar.Render(w) })
}

func (f HTMLFactory) finish(slot Slot, c components.Charter, render func(io.Writer) error) (Surface, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", slot, err)
	}
	return &HTMLSurface{slot: slot, charter: c, html: buf.Bytes()}, nil
}

// tooltipFormatter mirrors TrendSpec.Tooltip in the browser: three decimals
// plus the unit, one line per non-null series. The function body must not
// contain double quotes; the option JSON escapes them.
func tooltipFormatter(unit string) types.FuncStr {
	suffix := strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '\\', '<', '>':
			return -1
		}
		return r
	}, strings.TrimSpace(unit))
	if suffix != "" {
		suffix = " " + suffix
	}
	return opts.FuncOpts(`function (params) {
		var items = Array.isArray(params) ? params : [params];
		var lines = [];
		for (var i = 0; i < items.length; i++) {
			var p = items[i];
			if (p.value === null || p.value === undefined || p.value === '` + echartsNull + `') { continue; }
			lines.push(p.marker + p.seriesName + ': ' + Number(p.value).toFixed(3) + '` + suffix + `');
		}
		if (lines.length === 0) { return ''; }
		return [items[0].axisValueLabel].concat(lines).join('<br/>');
	}`)
}

// lineData converts a null-padded series to ECharts points. A non-empty
// symbol is applied per point so a lone forecast value stays visible.
func lineData(values []float64, symbol string, size int) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		if pipeline.IsNull(v) {
			out[i] = opts.LineData{Value: echartsNull}
			continue
		}
		out[i] = opts.LineData{Value: v}
		if symbol != "" {
			out[i].Symbol = symbol
			out[i].SymbolSize = size
		}
	}
	return out
}

// WritePage renders the given surfaces into one HTML page and inserts body
// (already escaped HTML) ahead of the charts.
func WritePage(w io.Writer, title, body string, surfaces ...*HTMLSurface) error {
	page := components.NewPage()
	page.PageTitle = title
	added := 0
	for _, s := range surfaces {
		if s == nil {
			continue
		}
		s.mu.Lock()
		c, closed := s.charter, s.closed
		s.mu.Unlock()
		if closed {
			return fmt.Errorf("%s chart: %w", s.slot, ErrClosed)
		}
		page.AddCharts(c)
		added++
	}
	if added == 0 {
		return fmt.Errorf("no charts to write")
	}
	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	html := buf.String()
	if body != "" {
		html = strings.Replace(html, "<body>", "<body>\n"+body, 1)
	}
	_, err := io.WriteString(w, html)
	return err
}
