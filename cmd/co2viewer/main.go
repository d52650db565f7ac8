package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/cmd/co2viewer/uihelpers"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/charts"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/gateway"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/geo"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/session"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    *config.Config

	sess    *session.Session
	coord   *charts.Coordinator
	factory *charts.PNGFactory
	cmpSpec charts.ComparisonSpec

	country string
	rows    []pipeline.Row
	dark    bool

	countrySelect *widget.Select
	fetchBtn      *widget.Button
	statusLabel   *widget.Label
	headline      map[string]*widget.Label
	table         *widget.Table
	trendImg      *canvas.Image
	cmpImg        *canvas.Image
	manualResult  *widget.Label
}

// co2Theme switches the default theme between light and dark variants.
type co2Theme struct{ dark *bool }

func (t *co2Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if *t.dark {
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
	return theme.DefaultTheme().Color(name, theme.VariantLight)
}
func (t *co2Theme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (t *co2Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (t *co2Theme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var (
		cfgPath     string
		apiBase     string
		countryFlag string
		logLevel    string
		shotsDir    string
		hints       bool
	)
	flag.StringVar(&cfgPath, "config", "co2viewer.yaml", "Path to YAML configuration")
	flag.StringVar(&apiBase, "api", "", "Prediction service base URL (overrides config)")
	flag.StringVar(&countryFlag, "country", "", "Country selected at start-up")
	flag.StringVar(&logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	flag.StringVar(&shotsDir, "screenshots", "", "Render charts for -country into this directory and exit")
	flag.BoolVar(&hints, "hints", false, "Draw a reading hint under each chart")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if apiBase != "" {
		cfg.APIBase = apiBase
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logging.SetOutput(os.Stderr, cfg.Log.Format)
	logging.SetLogLevel(cfg.Log.Level)

	if shotsDir != "" {
		if err := RunScreenshotsMode(context.Background(), cfg, countryFlag, shotsDir); err != nil {
			logging.Errorf("screenshots: %v", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.co2predictor.viewer")
	state := &uiState{app: a, cfg: cfg}
	state.dark = a.Preferences().BoolWithFallback("darkMode", false)
	a.Settings().SetTheme(&co2Theme{dark: &state.dark})
	w := a.NewWindow("Africa CO₂ Emissions Predictor")
	w.Resize(fyne.NewSize(1200, 900))
	state.window = w

	cw, ch := uihelpers.ComputeChartDimensions(cfg.Charts.Width)
	state.factory = &charts.PNGFactory{Width: cw, Height: ch, Hints: hints}
	state.coord = charts.NewCoordinator(state.factory)
	state.cmpSpec = charts.NewComparisonSpec(cfg.Comparison)
	client := gateway.New(cfg.APIBase, cfg.CountryNames(), cfg.RequestTimeout)
	logging.Infof("[viewer] prediction service at %s", client.BaseURL())
	state.sess = session.New(client, state.coord, session.Options{
		Policy:     pipeline.YearPolicy{HorizonYears: cfg.Forecast.HorizonYears, FallbackYear: cfg.Forecast.FallbackYear},
		Unit:       cfg.Unit,
		Comparison: state.cmpSpec,
	})
	state.sess.OnChange(func(s session.Snapshot) { fyne.Do(func() { applySnapshot(state, s) }) })
	state.sess.OnManual(func(m session.ManualResult) { fyne.Do(func() { applyManual(state, m) }) })

	w.SetContent(buildLayout(state))
	w.SetOnClosed(func() {
		if err := state.coord.Close(); err != nil {
			logging.Warnf("[viewer] closing charts: %v", err)
		}
	})

	// comparison chart is static and drawn before any request
	if err := state.coord.RenderComparison(state.cmpSpec); err != nil {
		logging.Errorf("[viewer] comparison chart: %v", err)
	}
	redrawCharts(state)

	initial := countryFlag
	if initial == "" {
		initial = cfg.CountryNames()[0]
	}
	state.countrySelect.SetSelected(initial)
	if countryFlag == "" && cfg.GeoIP.Enabled {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if name, ok := geo.DefaultCountry(ctx, cfg, &http.Client{Timeout: 5 * time.Second}); ok {
				logging.Infof("[viewer] default country from location: %s", name)
				fyne.Do(func() { state.countrySelect.SetSelected(name) })
			}
		}()
	}

	w.ShowAndRun()
}

func buildLayout(state *uiState) fyne.CanvasObject {
	state.statusLabel = widget.NewLabel("")
	state.countrySelect = widget.NewSelect(state.cfg.CountryNames(), func(name string) {
		state.country = name
		fetch(state)
	})
	state.fetchBtn = widget.NewButton("Predict", func() { fetch(state) })
	darkCheck := widget.NewCheck("Dark mode", func(on bool) {
		state.dark = on
		state.app.Preferences().SetBool("darkMode", on)
		state.app.Settings().SetTheme(&co2Theme{dark: &state.dark})
	})
	darkCheck.SetChecked(state.dark)
	top := container.NewHBox(widget.NewLabel("Country:"), state.countrySelect, state.fetchBtn, darkCheck, state.statusLabel)

	state.headline = map[string]*widget.Label{}
	headline := container.NewGridWithColumns(4)
	tracker := container.NewGridWithColumns(4)
	for _, k := range []string{"Predicted", "Last year", "Change", "Trend"} {
		state.headline[k] = widget.NewLabelWithStyle(pipeline.Unavailable, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		headline.Add(container.NewVBox(widget.NewLabel(k), state.headline[k]))
	}
	for _, k := range []string{"Avg temperature", "Energy use", "GDP", "Population"} {
		state.headline[k] = widget.NewLabel(pipeline.Unavailable)
		tracker.Add(container.NewVBox(widget.NewLabel(k), state.headline[k]))
	}

	state.table = widget.NewTable(
		// 1 header row + data rows; 6 columns
		func() (int, int) { return len(state.rows) + 1, pipeline.NumColumns },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			lbl.TextStyle = fyne.TextStyle{}
			if id.Row == 0 {
				lbl.TextStyle.Bold = true
				lbl.SetText(pipeline.ColumnTitles[id.Col])
				return
			}
			rix := id.Row - 1
			if rix < 0 || rix >= len(state.rows) {
				lbl.SetText("")
				return
			}
			r := state.rows[rix]
			lbl.TextStyle.Italic = r.IsPredicted()
			lbl.SetText(r.Cells[id.Col])
		},
	)
	applyColumnWidths(state, 1200)

	state.trendImg = canvas.NewImageFromImage(charts.Placeholder(state.factory.Width, state.factory.Height, "Select a country"))
	state.trendImg.FillMode = canvas.ImageFillContain
	state.cmpImg = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.cmpImg.FillMode = canvas.ImageFillContain
	trendW, cmpW, stacked := uihelpers.ComputeComparisonWidth(state.factory.Width)
	state.trendImg.SetMinSize(fyne.NewSize(float32(trendW), float32(state.factory.Height)))
	state.cmpImg.SetMinSize(fyne.NewSize(float32(cmpW), float32(state.factory.Height)))
	var chartsRow fyne.CanvasObject
	if stacked {
		chartsRow = container.NewVBox(state.trendImg, state.cmpImg)
	} else {
		chartsRow = container.NewBorder(nil, nil, nil, state.cmpImg, state.trendImg)
	}

	tableScroll := container.NewVScroll(state.table)
	tableScroll.SetMinSize(fyne.NewSize(900, 220))

	body := container.NewVBox(
		headline,
		widget.NewSeparator(),
		tracker,
		widget.NewSeparator(),
		chartsRow,
		widget.NewLabelWithStyle(state.cmpSpec.Note, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		tableScroll,
		widget.NewSeparator(),
		buildManualForm(state),
	)
	return container.NewBorder(top, nil, nil, nil, container.NewVScroll(body))
}

func applyColumnWidths(state *uiState, winW float32) {
	for i, cw := range uihelpers.ComputeTableColumnWidths(winW) {
		state.table.SetColumnWidth(i, float32(cw))
	}
}

func buildManualForm(state *uiState) fyne.CanvasObject {
	year := widget.NewEntry()
	year.SetPlaceHolder("2025")
	temp := widget.NewEntry()
	energy := widget.NewEntry()
	gdp := widget.NewEntry()
	pop := widget.NewEntry()
	code := widget.NewEntry()
	code.SetPlaceHolder("0")
	state.manualResult = widget.NewLabel("")

	form := widget.NewForm(
		widget.NewFormItem("Year", year),
		widget.NewFormItem("Avg temperature (°C)", temp),
		widget.NewFormItem("Energy use", energy),
		widget.NewFormItem("GDP", gdp),
		widget.NewFormItem("Population", pop),
		widget.NewFormItem("Country code", code),
	)
	form.SubmitText = "Predict"
	form.OnSubmit = func() {
		req, err := parseFeatures(year.Text, temp.Text, energy.Text, gdp.Text, pop.Text, code.Text)
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		go func() {
			ctx, cancel := requestContext(state.cfg)
			defer cancel()
			if _, err := state.sess.Predict(ctx, req); err != nil && !errors.Is(err, session.ErrSuperseded) {
				logging.Debugf("[viewer] manual prediction: %v", err)
			}
		}()
	}
	return container.NewVBox(
		widget.NewLabelWithStyle("Custom prediction", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		state.manualResult,
	)
}

// parseFeatures validates the manual form. Every field is required.
func parseFeatures(year, temp, energy, gdp, pop, code string) (types.FeatureRequest, error) {
	var req types.FeatureRequest
	var err error
	num := func(name, s string) float64 {
		if err != nil {
			return 0
		}
		v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			err = fmt.Errorf("%s: enter a number", name)
		}
		return v
	}
	integer := func(name, s string) int {
		if err != nil {
			return 0
		}
		v, perr := strconv.Atoi(strings.TrimSpace(s))
		if perr != nil {
			err = fmt.Errorf("%s: enter a whole number", name)
		}
		return v
	}
	req.Year = integer("Year", year)
	req.AvgTemperature = num("Avg temperature", temp)
	req.EnergyUse = num("Energy use", energy)
	req.GDP = num("GDP", gdp)
	req.Population = num("Population", pop)
	req.CountryCode = integer("Country code", code)
	return req, err
}

func requestContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.RequestTimeout > 0 {
		return context.WithTimeout(context.Background(), cfg.RequestTimeout)
	}
	return context.WithCancel(context.Background())
}

func fetch(state *uiState) {
	country := state.country
	if country == "" {
		return
	}
	go func() {
		ctx, cancel := requestContext(state.cfg)
		defer cancel()
		_, err := state.sess.Lookup(ctx, country)
		switch {
		case err == nil, errors.Is(err, session.ErrSuperseded):
		case errors.Is(err, gateway.ErrUnsupportedCountry):
			fyne.Do(func() { dialog.ShowError(err, state.window) })
		default:
			logging.Debugf("[viewer] lookup %s: %v", country, err)
		}
	}()
}

func applySnapshot(state *uiState, s session.Snapshot) {
	sum := s.Summary
	unit := ""
	if s.State == session.Rendered && s.Unit != "" {
		unit = " " + s.Unit
	}
	state.headline["Predicted"].SetText(sum.Predicted + unit)
	state.headline["Last year"].SetText(sum.LastYear)
	state.headline["Change"].SetText(sum.Change)
	state.headline["Trend"].SetText(sum.Trend)
	state.headline["Avg temperature"].SetText(sum.Temp)
	state.headline["Energy use"].SetText(sum.Energy)
	state.headline["GDP"].SetText(sum.GDP)
	state.headline["Population"].SetText(sum.Pop)

	switch s.State {
	case session.Loading:
		state.statusLabel.SetText("Loading " + s.Country + "...")
		state.fetchBtn.Disable()
	case session.Failed:
		state.statusLabel.SetText(s.Message)
		state.fetchBtn.Enable()
		state.headline["Trend"].SetText("Failed to load data")
	case session.Rendered:
		state.statusLabel.SetText("")
		state.fetchBtn.Enable()
		state.rows = s.Rows
		state.table.Refresh()
		redrawCharts(state)
	}
}

func applyManual(state *uiState, m session.ManualResult) {
	text := m.Line
	if m.Err {
		text = "❌ " + text
	} else if m.Line != session.PredictingMessage {
		text = "✅ " + text
	}
	state.manualResult.SetText(text)
}

// redrawCharts copies the coordinator's current surfaces into the canvases.
func redrawCharts(state *uiState) {
	for slot, img := range map[charts.Slot]*canvas.Image{charts.SlotTrend: state.trendImg, charts.SlotComparison: state.cmpImg} {
		s, ok := state.coord.Surface(slot).(*charts.ImageSurface)
		if !ok {
			continue
		}
		pic, err := s.Image()
		if err != nil {
			logging.Warnf("[viewer] %s chart: %v", slot, err)
			continue
		}
		img.Image = pic
		img.Refresh()
	}
}
