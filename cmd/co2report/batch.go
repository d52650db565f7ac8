package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
)

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var (
		countries   []string
		format      string
		outDir      string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render forecasts for several countries concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(countries) == 0 {
				countries = opts.cfg.CountryNames()
			}
			if concurrency < 1 {
				concurrency = 1
			}
			// each country renders into its own buffer so output stays in order
			outs := make([]bytes.Buffer, len(countries))
			errs := make([]error, len(countries))

			eg, egCtx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(concurrency)
			for i, c := range countries {
				i, c := i, c
				eg.Go(func() error {
					_, errs[i] = predictOne(egCtx, opts, strings.TrimSpace(c), format, outDir, &outs[i])
					if errs[i] != nil {
						logging.Warnf("[batch] %s: %v", c, errs[i])
					}
					return egCtx.Err()
				})
			}
			waitErr := eg.Wait()

			failed := 0
			for i := range countries {
				_, _ = cmd.OutOrStdout().Write(outs[i].Bytes())
				if errs[i] != nil {
					failed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d countries rendered\n", len(countries)-failed, len(countries))
			if waitErr != nil {
				return waitErr
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d countries failed: %w", failed, len(countries), errors.Join(errs...))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&countries, "countries", nil, "comma-separated countries (default: all configured)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "text|png|html|both")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for chart files")
	cmd.Flags().IntVar(&concurrency, "concurrency", 3, "parallel requests")
	return cmd
}
