// Package fund runs the whole evaluation of one fund: load disclosures,
// align prices, compose portfolios and compare them with the benchmark.
package fund

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"HedgeMirror/internal/chart"
	"HedgeMirror/internal/collector"
	"HedgeMirror/internal/compare"
	"HedgeMirror/internal/disclosure"
	"HedgeMirror/internal/logging"
	"HedgeMirror/internal/model"
	"HedgeMirror/internal/portfolio"
	"HedgeMirror/internal/strategy"
)

// HedgeFund is the evaluation context of one fund.
type HedgeFund struct {
	Name            string
	Store           disclosure.Store
	Weeks           int
	ValueMultiplier float64
	Source          collector.PriceSource
	Benchmark       string
	Policies        []strategy.Policy
	Options         portfolio.Options
	Renderer        chart.Renderer
	Logger          zerolog.Logger
}

// Option configures a HedgeFund.
type Option func(*HedgeFund)

// WithWeeks sets the holding period in weeks.
func WithWeeks(weeks int) Option {
	return func(f *HedgeFund) { f.Weeks = weeks }
}

// WithValueMultiplier sets the factor applied to disclosed values.
func WithValueMultiplier(m float64) Option {
	return func(f *HedgeFund) { f.ValueMultiplier = m }
}

// WithSource sets the price source.
func WithSource(src collector.PriceSource) Option {
	return func(f *HedgeFund) { f.Source = src }
}

// WithBenchmark sets the benchmark symbol.
func WithBenchmark(symbol string) Option {
	return func(f *HedgeFund) {
		if symbol != "" {
			f.Benchmark = symbol
		}
	}
}

// WithPolicies sets the weighting approaches to compare.
func WithPolicies(policies ...strategy.Policy) Option {
	return func(f *HedgeFund) { f.Policies = policies }
}

// WithMatchOptions sets how evaluation dates are matched to return series.
func WithMatchOptions(opts portfolio.Options) Option {
	return func(f *HedgeFund) { f.Options = opts }
}

// WithRenderer sets the chart renderer used by PlotGrowth.
func WithRenderer(r chart.Renderer) Option {
	return func(f *HedgeFund) { f.Renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *HedgeFund) { f.Logger = l }
}

// New creates a HedgeFund with a 13-week holding period, the VOO benchmark,
// the value-weighted approach and a Yahoo Finance price source.
func New(name string, store disclosure.Store, opts ...Option) *HedgeFund {
	f := &HedgeFund{
		Name:            name,
		Store:           store,
		Weeks:           disclosure.DefaultWeeks,
		ValueMultiplier: disclosure.DefaultValueMultiplier,
		Benchmark:       collector.DefaultBenchmark,
		Policies:        []strategy.Policy{strategy.ValueWeighted{Denominator: strategy.AllDisclosed}},
		Logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.Source == nil {
		f.Source = collector.NewYahooFetcher("", 30*time.Second, f.Logger)
	}
	if f.Renderer == nil {
		f.Renderer = chart.NewPlotRenderer("png")
	}
	return f
}

// Evaluation is the result of one run. It is not modified after Evaluate returns.
type Evaluation struct {
	Fund        string
	Disclosures *model.DisclosureTable
	Returns     *model.PriceReturns
	Portfolios  []*model.Portfolio
	Comparison  *model.Comparison
	Warnings    []model.Warning
}

func (f *HedgeFund) stageErr(stage string, err error) error {
	f.Logger.Error().Str("fund", f.Name).Str("stage", stage).Err(err).Msg("evaluation failed")
	return &model.StageError{Fund: f.Name, Stage: stage, Err: err}
}

// Evaluate runs the pipeline end to end. On failure the error is a
// *model.StageError and no partial result is returned.
func (f *HedgeFund) Evaluate(ctx context.Context) (*Evaluation, error) {
	if len(f.Policies) == 0 {
		return nil, f.stageErr(model.StageCompose, fmt.Errorf("no weighting approach configured"))
	}

	loader := disclosure.NewLoader(f.Name, f.Store, logging.ForStage(f.Logger, f.Name, model.StageLoad))
	loader.Weeks = f.Weeks
	loader.ValueMultiplier = f.ValueMultiplier
	table, err := loader.Load(ctx)
	if err != nil {
		return nil, f.stageErr(model.StageLoad, err)
	}

	col := collector.NewCollector(f.Source, f.Benchmark, table.Weeks, logging.ForStage(f.Logger, f.Name, model.StageAlign))
	returns, err := col.Align(ctx, table)
	if err != nil {
		return nil, f.stageErr(model.StageAlign, err)
	}

	eval := &Evaluation{Fund: f.Name, Disclosures: table, Returns: returns, Warnings: returns.Warnings}
	for _, p := range f.Policies {
		pf, err := portfolio.Compose(table, returns, p, f.Options)
		if err != nil {
			return nil, f.stageErr(model.StageCompose, fmt.Errorf("%s: %w", p.Name(), err))
		}
		eval.Portfolios = append(eval.Portfolios, pf)
	}

	eval.Comparison, err = compare.Compare(f.Name, eval.Portfolios, returns, f.Options)
	if err != nil {
		return nil, f.stageErr(model.StageCompare, err)
	}

	f.Logger.Info().
		Str("fund", f.Name).
		Int("filings", len(table.Dates)).
		Int("periods", len(eval.Comparison.Rows)).
		Int("warnings", len(eval.Warnings)).
		Msg("evaluation complete")
	return eval, nil
}

// PlotGrowth projects principal (DefaultPrincipal when <= 0) through the
// evaluation's comparison and renders the result to w.
func (f *HedgeFund) PlotGrowth(w io.Writer, eval *Evaluation, principal float64) (*model.Growth, error) {
	if principal <= 0 {
		principal = compare.DefaultPrincipal
	}
	g := compare.Growth(eval.Comparison, principal)
	title := fmt.Sprintf("%s vs %s", f.Name, eval.Comparison.Benchmark)
	if err := f.Renderer.RenderGrowth(w, title, g); err != nil {
		return nil, f.stageErr(model.StageRender, err)
	}
	return g, nil
}
