package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/cmd/co2viewer/uihelpers"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/charts"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/gateway"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/report"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/session"
)

// RunScreenshotsMode fetches one country and writes the trend and comparison
// charts as PNGs under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(ctx context.Context, cfg *config.Config, country, outDir string) error {
	if country == "" {
		country = cfg.CountryNames()[0]
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	w, h := uihelpers.ComputeChartDimensions(cfg.Charts.Width)
	coord := charts.NewCoordinator(charts.PNGFactory{Width: w, Height: h, Hints: true})
	defer coord.Close()

	client := gateway.New(cfg.APIBase, cfg.CountryNames(), cfg.RequestTimeout)
	sess := session.New(client, coord, session.Options{
		Policy:     pipeline.YearPolicy{HorizonYears: cfg.Forecast.HorizonYears, FallbackYear: cfg.Forecast.FallbackYear},
		Unit:       cfg.Unit,
		Comparison: charts.NewComparisonSpec(cfg.Comparison),
	})
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}
	snap, err := sess.Lookup(ctx, country)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", country, session.Message(err), err)
	}

	return writeSurfaces(coord, outDir, map[charts.Slot]string{
		charts.SlotTrend:      fmt.Sprintf("trend_%s.png", report.FileSlug(snap.Country)),
		charts.SlotComparison: "comparison.png",
	})
}

func writeSurfaces(coord *charts.Coordinator, outDir string, names map[charts.Slot]string) error {
	for slot, name := range names {
		s, ok := coord.Surface(slot).(*charts.ImageSurface)
		if !ok {
			return fmt.Errorf("%s chart missing", slot)
		}
		raw, err := s.PNG()
		if err != nil {
			return fmt.Errorf("%s chart: %w", slot, err)
		}
		outPath := filepath.Join(outDir, name)
		if err := os.WriteFile(outPath, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		logging.Infof("[screenshots] wrote %s", outPath)
	}
	return nil
}
