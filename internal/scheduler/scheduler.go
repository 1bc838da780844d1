package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"HedgeMirror/internal/compare"
	"HedgeMirror/internal/fund"
	"HedgeMirror/internal/notifier"
)

// DefaultEvaluateCron fires at 09:00 on the 15th of Feb, May, Aug and Nov,
// once the quarter's 13F filings are due.
const DefaultEvaluateCron = "0 0 9 15 2,5,8,11 *"

// Sender delivers a report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler re-evaluates every configured fund on a cron schedule and
// answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Funds     *fund.Registry
	Notifier  Sender
	Principal float64
	Logger    zerolog.Logger
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, funds *fund.Registry, sender Sender, principal float64, logger zerolog.Logger) *Scheduler {
	if principal <= 0 {
		principal = compare.DefaultPrincipal
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Funds:     funds,
		Notifier:  sender,
		Principal: principal,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// Register adds the evaluation task. An empty expression uses DefaultEvaluateCron.
func (s *Scheduler) Register(expr string) error {
	if expr == "" {
		expr = DefaultEvaluateCron
	}
	if _, err := s.Cron.AddFunc(expr, s.RunAll); err != nil {
		return fmt.Errorf("register evaluate task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Int("funds", len(s.Funds.Names())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunAll evaluates every fund in turn and sends one report per fund.
func (s *Scheduler) RunAll() {
	for _, name := range s.Funds.Names() {
		s.trySend(s.evaluate(s.Ctx, name))
	}
}

func (s *Scheduler) evaluate(ctx context.Context, name string) string {
	s.Logger.Info().Str("fund", name).Msg("running evaluation")
	_, eval, err := s.Funds.Evaluate(ctx, name)
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	g := compare.Growth(eval.Comparison, s.Principal)
	return strings.Join([]string{
		notifier.FormatComparison(eval.Comparison, eval.Warnings),
		notifier.FormatGrowth(g),
		notifier.FormatSummary(compare.Summarize(eval.Comparison)),
	}, "\n")
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage()
	}
	switch fields[0] {
	case "/funds":
		return notifier.FormatFunds(s.Funds.Names())
	case "/evaluate":
		if len(fields) < 2 {
			return "Usage: /evaluate &lt;fund&gt;"
		}
		name := strings.Join(fields[1:], " ")
		if _, ok := s.Funds.Get(name); !ok {
			return fmt.Sprintf("Unknown fund %q.\n\n%s", name, notifier.FormatFunds(s.Funds.Names()))
		}
		return s.evaluate(ctx, name)
	default:
		return usage()
	}
}

func usage() string {
	return "Available commands:\n• /funds\n• /evaluate &lt;fund&gt;"
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error().Err(err).Msg("send notification")
	}
}
