package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"HedgeMirror/internal/collector"
	"HedgeMirror/internal/config"
	"HedgeMirror/internal/disclosure"
	"HedgeMirror/internal/fund"
	"HedgeMirror/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs once the config is loaded.
type app struct {
	cfgPath string
	debug   bool
	cfg     *config.Config
	logger  zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hedgemirror",
		Short: "Replicate a fund's disclosed buys and compare them with a benchmark",
		Long: `hedgemirror reads a fund's quarterly 13F disclosures, builds the portfolio
of everything the fund bought, holds each buy for a fixed number of weeks and
compares the result with a benchmark ETF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", cfgPath, "path to the YAML config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(newEvaluateCmd(a), newWatchCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logging())
	return nil
}

func (a *app) priceSource() collector.PriceSource {
	var src collector.PriceSource
	if a.cfg.DataSource.BaseURL != "" {
		src = collector.NewRESTFetcher(a.cfg.DataSource.BaseURL, a.cfg.DataSource.APIKey, a.cfg.Proxy, a.cfg.Timeout(), a.logger)
	} else {
		src = collector.NewYahooFetcher(a.cfg.Proxy, a.cfg.Timeout(), a.logger)
	}
	a.logger.Info().Str("source", src.Name()).Msg("price source selected")
	if a.cfg.DataSource.Retries > 0 {
		src = collector.NewRetryingSource(src, a.cfg.DataSource.Retries, a.logger)
	}
	return src
}

// funds builds the configured funds, or only those named.
func (a *app) funds(names ...string) ([]*fund.HedgeFund, error) {
	policies, err := a.cfg.Policies()
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.MatchOptions()
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool)
	for _, n := range names {
		wanted[n] = true
	}

	src := a.priceSource()
	var out []*fund.HedgeFund
	for _, fc := range a.cfg.Funds {
		if len(wanted) > 0 && !wanted[fc.Name] {
			continue
		}
		delete(wanted, fc.Name)
		out = append(out, fund.New(fc.Name, disclosure.NewDirStore(fc.Directory),
			fund.WithWeeks(a.cfg.Evaluation.HoldingWeeks),
			fund.WithValueMultiplier(a.cfg.Evaluation.ValueMultiplier),
			fund.WithSource(src),
			fund.WithBenchmark(a.cfg.Evaluation.Benchmark),
			fund.WithPolicies(policies...),
			fund.WithMatchOptions(opts),
			fund.WithLogger(a.logger),
		))
	}
	for n := range wanted {
		return nil, fmt.Errorf("fund %q is not configured", n)
	}
	return out, nil
}
