// Command co2report fetches CO₂ predictions and renders them without the
// desktop viewer: a styled terminal summary, PNG charts or an interactive
// HTML page.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/charts"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/config"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/gateway"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/pipeline"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/report"
	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/session"
)

type rootOptions struct {
	configPath string
	apiBase    string
	logLevel   string
	logFormat  string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "co2report",
		Short:         "Render CO₂ emission predictions for African reference countries",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "co2viewer.yaml", "path to YAML configuration")
	root.PersistentFlags().StringVar(&opts.apiBase, "api", "", "prediction service base URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "text|json (overrides config)")

	root.AddCommand(
		newPredictCmd(opts),
		newBatchCmd(opts),
		newManualCmd(opts),
		newCountriesCmd(opts),
		newCompareCmd(opts),
	)
	return root
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.apiBase != "" {
		cfg.APIBase = o.apiBase
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.SetOutput(os.Stderr, cfg.Log.Format)
	logging.SetLogLevel(cfg.Log.Level)
	o.cfg = cfg
	return nil
}

func (o *rootOptions) client() *gateway.Client {
	c := gateway.New(o.cfg.APIBase, o.cfg.CountryNames(), o.cfg.RequestTimeout)
	logging.Debugf("[report] prediction service at %s", c.BaseURL())
	return c
}

func (o *rootOptions) session(r session.Renderer) *session.Session {
	return session.New(o.client(), r, session.Options{
		Policy:     pipeline.YearPolicy{HorizonYears: o.cfg.Forecast.HorizonYears, FallbackYear: o.cfg.Forecast.FallbackYear},
		Unit:       o.cfg.Unit,
		Comparison: charts.NewComparisonSpec(o.cfg.Comparison),
	})
}

func (o *rootOptions) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.RequestTimeout > 0 {
		return context.WithTimeout(parent, o.cfg.RequestTimeout)
	}
	return context.WithCancel(parent)
}

func newCountriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries the prediction service supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd.Context())
			defer cancel()
			names, err := opts.client().Countries(ctx)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newCompareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Show the static cross-country reference values",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), report.Bars(charts.NewComparisonSpec(opts.cfg.Comparison), 40, 14))
			return nil
		},
	}
}
