package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"HedgeMirror/internal/compare"
	"HedgeMirror/internal/fund"
	"HedgeMirror/internal/model"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	warn    = color.New(color.FgYellow)
)

func cell(x float64) string {
	if !model.Defined(x) {
		return "-"
	}
	return fmt.Sprintf("%.2f", x)
}

func writeComparison(out io.Writer, eval *fund.Evaluation) {
	cmp := eval.Comparison
	heading.Fprintf(out, "📊 %s vs %s (%d-week holding)\n", cmp.Fund, cmp.Benchmark, eval.Disclosures.Weeks)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "eval_date\tperiod\t")
	for _, a := range cmp.Approaches {
		fmt.Fprintf(w, "%s %%\t", a)
	}
	fmt.Fprintf(w, "%s %%\t", cmp.Benchmark)
	if len(cmp.Approaches) == 1 {
		fmt.Fprint(w, "outperformance\t")
	}
	fmt.Fprintln(w)

	for _, r := range cmp.Rows {
		fmt.Fprintf(w, "%s\t%s\t", r.EvalDate.Format("2006-01-02"), r.Period)
		for _, a := range cmp.Approaches {
			fmt.Fprintf(w, "%s\t", cell(r.Returns[a]))
		}
		fmt.Fprintf(w, "%s\t", cell(r.Benchmark))
		if len(cmp.Approaches) == 1 {
			fmt.Fprintf(w, "%s\t", cell(r.Outperformance))
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	for _, wr := range eval.Warnings {
		warn.Fprintf(out, "⚠️  excluded %s\n", wr)
	}
	fmt.Fprintln(out)
}

func writeGrowth(out io.Writer, g *model.Growth) {
	heading.Fprintf(out, "💰 Growth of %.2f\n", g.Principal)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "eval_date\t")
	for _, c := range g.Columns {
		fmt.Fprintf(w, "%s\t", c)
	}
	fmt.Fprintln(w)
	for _, r := range g.Rows {
		fmt.Fprintf(w, "%s\t", r.EvalDate.Format("2006-01-02"))
		for _, c := range g.Columns {
			fmt.Fprintf(w, "%.2f\t", r.Values[c])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func writeSummary(out io.Writer, stats []model.ColumnStats) {
	heading.Fprintln(out, "📈 Summary")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "column\tperiods\tmean %\tstd %\ttotal %\thit rate\t")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t\n",
			s.Column, s.Periods, cell(s.MeanPct), cell(s.StdDevPct), cell(s.CumulativePct), cell(compare.Round2(s.HitRate)))
	}
	w.Flush()
	fmt.Fprintln(out)
}
