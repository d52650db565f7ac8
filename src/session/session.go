// Package session drives one view of the prediction page: it issues requests,
// tracks the Idle/Loading/Rendered/Failed lifecycle and hands successful
// responses to the presenters and the chart coordinator.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/charts"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/gateway"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

// ErrSuperseded marks a completion that arrived after a newer request was issued.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Manual form messages.
const (
	PredictingMessage   = "Predicting..."
	ManualRequestFailed = "Request failed. Check if backend is running."
	ChartFailedMessage  = "Failed to draw charts"
)

type State int

const (
	Idle State = iota
	Loading
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Predictor is the subset of the gateway the session needs.
type Predictor interface {
	PredictCountry(ctx context.Context, country string) (map[string]any, error)
	PredictFeatures(ctx context.Context, req types.FeatureRequest) (map[string]any, error)
}

// Renderer rebuilds the chart surfaces; *charts.Coordinator satisfies it.
type Renderer interface {
	Render(trend charts.TrendSpec, cmp charts.ComparisonSpec) error
}

// Options carries the presentation settings.
type Options struct {
	Policy     pipeline.YearPolicy
	Unit       string
	Comparison charts.ComparisonSpec
}

// Snapshot is an immutable view of the page state.
type Snapshot struct {
	State   State
	Country string
	Unit    string
	Token   uint64
	Summary pipeline.Summary
	Rows    []pipeline.Row
	Series  pipeline.ChartSeriesPair
	Message string
}

// ManualResult is the outcome of a manual feature prediction.
type ManualResult struct {
	Token uint64
	Value *float64
	Line  string
	Err   bool
}

// Session serializes the lifecycle of one page. It is safe for concurrent use;
// observers run outside the lock, in the goroutine that caused the change.
type Session struct {
	api    Predictor
	charts Renderer
	opts   Options

	mu          sync.Mutex
	token       uint64
	manualToken uint64
	snap        Snapshot
	observers   []func(Snapshot)
	manualObs   []func(ManualResult)
}

// New returns an Idle session. charts may be nil when only tabular output is needed.
func New(api Predictor, r Renderer, opts Options) *Session {
	if opts.Policy == (pipeline.YearPolicy{}) {
		opts.Policy = pipeline.DefaultYearPolicy
	}
	return &Session{
		api:    api,
		charts: r,
		opts:   opts,
		snap:   Snapshot{State: Idle, Unit: opts.Unit, Summary: pipeline.FillSummary(pipeline.Unavailable)},
	}
}

// OnChange registers fn to receive every new snapshot.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// OnManual registers fn to receive every manual-form update.
func (s *Session) OnManual(fn func(ManualResult)) {
	s.mu.Lock()
	s.manualObs = append(s.manualObs, fn)
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Lookup runs one fetch cycle for country. A cycle overtaken by a later
// Lookup returns ErrSuperseded and leaves the state alone.
func (s *Session) Lookup(ctx context.Context, country string) (Snapshot, error) {
	s.mu.Lock()
	s.token++
	tok := s.token
	prev := s.snap
	s.snap = Snapshot{
		State:   Loading,
		Country: country,
		Unit:    s.opts.Unit,
		Token:   tok,
		Summary: pipeline.FillSummary(pipeline.LoadingMarker),
		Rows:    prev.Rows,
		Series:  prev.Series,
	}
	loading := s.snap
	s.mu.Unlock()
	s.notify(loading)

	defer logging.TimeTrack(time.Now(), "lookup "+country)
	n, err := s.fetch(ctx, country)

	s.mu.Lock()
	if tok != s.token {
		s.mu.Unlock()
		logging.Debugf("[session] discarding stale response for %s (token %d, latest %d)", country, tok, s.token)
		return Snapshot{}, ErrSuperseded
	}
	if err != nil {
		s.snap = s.failed(loading, err)
		out := s.snap
		s.mu.Unlock()
		s.notify(out)
		return out, err
	}

	unit := s.opts.Unit
	if n.Prediction.Unit != nil && strings.TrimSpace(*n.Prediction.Unit) != "" {
		unit = *n.Prediction.Unit
	}
	display := country
	if n.Prediction.Country != nil && strings.TrimSpace(*n.Prediction.Country) != "" {
		display = *n.Prediction.Country
	}
	pair := pipeline.BuildSeries(n, s.opts.Policy)
	if s.charts != nil {
		if rerr := s.charts.Render(charts.NewTrendSpec(display, pair, unit), s.opts.Comparison); rerr != nil {
			logging.Errorf("[session] chart render for %s: %v", country, rerr)
			s.snap = s.failed(loading, rerr)
			s.snap.Message = ChartFailedMessage
			out := s.snap
			s.mu.Unlock()
			s.notify(out)
			return out, fmt.Errorf("render charts: %w", rerr)
		}
	}
	s.snap = Snapshot{
		State:   Rendered,
		Country: display,
		Unit:    unit,
		Token:   tok,
		Summary: pipeline.BuildSummary(n),
		Rows:    pipeline.BuildTable(n, s.opts.Policy),
		Series:  pair,
	}
	out := s.snap
	s.mu.Unlock()
	s.notify(out)
	logging.Infof("[session] %s rendered: %d records, forecast %d", display, len(n.Records), n.ForecastYear(s.opts.Policy))
	return out, nil
}

func (s *Session) fetch(ctx context.Context, country string) (pipeline.Normalized, error) {
	raw, err := s.api.PredictCountry(ctx, country)
	if err != nil {
		return pipeline.Normalized{}, err
	}
	return pipeline.Normalize(raw)
}

// failed keeps the previous table and series; only the displays change.
func (s *Session) failed(loading Snapshot, err error) Snapshot {
	out := loading
	out.State = Failed
	out.Summary = pipeline.FillSummary(pipeline.ErrorMarker)
	out.Message = Message(err)
	var te *gateway.TransportError
	if errors.As(err, &te) {
		logging.Warnf("[session] %s failed: %s (%s)", loading.Country, out.Message, te.Detail())
	} else {
		logging.Warnf("[session] %s failed: %s", loading.Country, out.Message)
	}
	return out
}

// Message maps an error to the text shown to the user.
func Message(err error) string {
	var se *pipeline.SchemaError
	var te *gateway.TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &te):
		return gateway.ConnectMessage
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return gateway.ConnectMessage
	}
	return err.Error()
}

// Predict submits the manual feature form. It only updates the manual result
// line; the charts and table are never touched.
func (s *Session) Predict(ctx context.Context, req types.FeatureRequest) (ManualResult, error) {
	s.mu.Lock()
	s.manualToken++
	tok := s.manualToken
	pending := ManualResult{Token: tok, Line: PredictingMessage}
	s.mu.Unlock()
	s.notifyManual(pending)

	res := ManualResult{Token: tok}
	raw, err := s.api.PredictFeatures(ctx, req)
	var n pipeline.Normalized
	if err == nil {
		n, err = pipeline.Normalize(raw)
	}
	var se *pipeline.SchemaError
	switch {
	case err == nil:
		res.Value = n.Prediction.PredictedValue
		res.Line = pipeline.FormatManual(res.Value, s.opts.Unit)
	case errors.As(err, &se):
		res.Err = true
		res.Line = se.Message
	default:
		res.Err = true
		res.Line = ManualRequestFailed
	}

	s.mu.Lock()
	if tok != s.manualToken {
		s.mu.Unlock()
		return ManualResult{}, ErrSuperseded
	}
	s.mu.Unlock()
	s.notifyManual(res)
	return res, err
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	obs := append(([]func(Snapshot))(nil), s.observers...)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(snap)
	}
}

func (s *Session) notifyManual(r ManualResult) {
	s.mu.Lock()
	obs := append(([]func(ManualResult))(nil), s.manualObs...)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(r)
	}
}
