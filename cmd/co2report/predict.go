package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/charts"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/report"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/session"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/types"
)

// Output formats for predict and batch.
const (
	formatText = "text"
	formatPNG  = "png"
	formatHTML = "html"
	formatBoth = "both"
)

// fanout renders the same specs through several coordinators.
type fanout []*charts.Coordinator

func (f fanout) Render(trend charts.TrendSpec, cmp charts.ComparisonSpec) error {
	var errs []error
	for _, c := range f {
		errs = append(errs, c.Render(trend, cmp))
	}
	return errors.Join(errs...)
}

func (f fanout) Close() error {
	var errs []error
	for _, c := range f {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type outputs struct {
	png  *charts.Coordinator
	html *charts.Coordinator
}

func newOutputs(format string, width, height int) (outputs, fanout, error) {
	var o outputs
	var f fanout
	switch format {
	case formatText:
	case formatPNG, formatHTML, formatBoth:
		if format != formatHTML {
			o.png = charts.NewCoordinator(charts.PNGFactory{Width: width, Height: height})
			f = append(f, o.png)
		}
		if format != formatPNG {
			o.html = charts.NewCoordinator(charts.HTMLFactory{Height: fmt.Sprintf("%dpx", height)})
			f = append(f, o.html)
		}
	default:
		return o, nil, fmt.Errorf("unknown format %q (want text, png, html or both)", format)
	}
	return o, f, nil
}

// predictOne runs a full lookup for country and writes the requested outputs.
func predictOne(ctx context.Context, opts *rootOptions, country, format, outDir string, w io.Writer) (session.Snapshot, error) {
	outs, fan, err := newOutputs(format, opts.cfg.Charts.Width, opts.cfg.Charts.Height)
	if err != nil {
		return session.Snapshot{}, err
	}
	defer func() {
		if cerr := fan.Close(); cerr != nil {
			logging.Warnf("[report] closing charts: %v", cerr)
		}
	}()

	var r session.Renderer
	if len(fan) > 0 {
		r = fan
	}
	sess := opts.session(r)
	ctx, cancel := opts.requestContext(ctx)
	defer cancel()
	snap, err := sess.Lookup(ctx, country)
	if w != nil {
		fmt.Fprint(w, report.Terminal(snap))
	}
	if err != nil {
		return snap, err
	}
	if outDir == "" || len(fan) == 0 {
		return snap, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return snap, fmt.Errorf("create out dir: %w", err)
	}
	slug := report.FileSlug(snap.Country)
	if outs.png != nil {
		if err := writePNGs(outs.png, outDir, slug); err != nil {
			return snap, err
		}
	}
	if outs.html != nil {
		if err := writeHTML(outs.html, snap, filepath.Join(outDir, slug+".html")); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

func writePNGs(c *charts.Coordinator, outDir, slug string) error {
	for slot, name := range map[charts.Slot]string{
		charts.SlotTrend:      slug + "_trend.png",
		charts.SlotComparison: slug + "_comparison.png",
	} {
		s, ok := c.Surface(slot).(*charts.ImageSurface)
		if !ok {
			return fmt.Errorf("%s chart missing", slot)
		}
		raw, err := s.PNG()
		if err != nil {
			return fmt.Errorf("%s chart: %w", slot, err)
		}
		p := filepath.Join(outDir, name)
		if err := os.WriteFile(p, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		logging.Infof("[report] wrote %s", p)
	}
	return nil
}

func writeHTML(c *charts.Coordinator, snap session.Snapshot, path string) error {
	trend, _ := c.Surface(charts.SlotTrend).(*charts.HTMLSurface)
	cmp, _ := c.Surface(charts.SlotComparison).(*charts.HTMLSurface)
	body, err := report.HTMLBody(snap)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := charts.WritePage(f, "CO₂ prediction: "+snap.Country, body, trend, cmp); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logging.Infof("[report] wrote %s", path)
	return nil
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var country, format, outDir string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Fetch and render the forecast for one country",
		Example: `  co2report predict --country Kenya
  co2report predict --country Ghana --format both --out ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if country == "" {
				country = opts.cfg.CountryNames()[0]
			}
			_, err := predictOne(cmd.Context(), opts, country, format, outDir, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&country, "country", "c", "", "reference country (default: first configured)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "text|png|html|both")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for chart files")
	return cmd
}

func newManualCmd(opts *rootOptions) *cobra.Command {
	var req types.FeatureRequest
	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Predict from raw feature values",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"year", "temp", "energy", "gdp", "pop"} {
				if !cmd.Flags().Changed(name) {
					return fmt.Errorf("--%s is required", name)
				}
			}
			ctx, cancel := opts.requestContext(cmd.Context())
			defer cancel()
			res, err := opts.session(nil).Predict(ctx, req)
			prefix := "✅ "
			if res.Err {
				prefix = "❌ "
			}
			fmt.Fprintln(cmd.OutOrStdout(), prefix+res.Line)
			return err
		},
	}
	cmd.Flags().IntVar(&req.Year, "year", 0, "forecast year")
	cmd.Flags().Float64Var(&req.AvgTemperature, "temp", 0, "average temperature (°C)")
	cmd.Flags().Float64Var(&req.EnergyUse, "energy", 0, "energy use")
	cmd.Flags().Float64Var(&req.GDP, "gdp", 0, "GDP")
	cmd.Flags().Float64Var(&req.Population, "pop", 0, "population")
	cmd.Flags().IntVar(&req.CountryCode, "code", 0, "country code")
	return cmd
}
