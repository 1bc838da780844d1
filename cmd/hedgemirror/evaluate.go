package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"HedgeMirror/internal/chart"
	"HedgeMirror/internal/compare"
	"HedgeMirror/internal/fund"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		names     []string
		chartPath string
		principal float64
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate funds once and print the comparison",
		Example: `  hedgemirror evaluate
  hedgemirror evaluate --fund Scion --chart scion.png --principal 25000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			funds, err := a.funds(names...)
			if err != nil {
				return err
			}
			if principal <= 0 {
				principal = a.cfg.Evaluation.Principal
			}

			out := cmd.OutOrStdout()
			var errs []error
			for _, f := range funds {
				eval, err := f.Evaluate(cmd.Context())
				if err != nil {
					errs = append(errs, err)
					continue
				}
				writeComparison(out, eval)
				g := compare.Growth(eval.Comparison, principal)
				writeGrowth(out, g)
				writeSummary(out, compare.Summarize(eval.Comparison))

				if chartPath != "" {
					path := chartFile(chartPath, f.Name, len(funds) > 1)
					if err := plot(f, eval, path, principal); err != nil {
						errs = append(errs, err)
						continue
					}
					fmt.Fprintf(out, "chart written to %s\n\n", path)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringSliceVar(&names, "fund", nil, "fund to evaluate (repeatable, default all)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write a growth chart (.png or .svg)")
	cmd.Flags().Float64Var(&principal, "principal", 0, "initial investment for the growth projection")
	return cmd
}

// chartFile adds the fund name before the extension when several funds share one path.
func chartFile(path, fundName string, several bool) string {
	if !several {
		return path
	}
	ext := filepath.Ext(path)
	slug := strings.ToLower(strings.Join(strings.Fields(fundName), "_"))
	return strings.TrimSuffix(path, ext) + "_" + slug + ext
}

func plot(f *fund.HedgeFund, eval *fund.Evaluation, path string, principal float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer file.Close()

	f.Renderer = chart.NewPlotRenderer(chart.FormatForPath(path))
	if _, err := f.PlotGrowth(file, eval, principal); err != nil {
		return err
	}
	return file.Close()
}
