package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"HedgeMirror/internal/fund"
	"HedgeMirror/internal/notifier"
	"HedgeMirror/internal/scheduler"
)

func newWatchCmd(a *app) *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate funds on a schedule and answer Telegram commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateTelegram(); err != nil {
				return err
			}
			funds, err := a.funds()
			if err != nil {
				return err
			}
			reg, err := fund.NewRegistry(funds...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
			sched := scheduler.NewScheduler(ctx, reg, tn, a.cfg.Evaluation.Principal, a.logger)
			if err := sched.Register(a.cfg.Schedule.EvaluateCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			a.logger.Info().Msg("telegram polling started")

			if runNow || os.Getenv("RUN_ON_START") == "true" {
				a.logger.Info().Msg("running evaluation on start")
				go sched.RunAll()
			}

			a.logger.Info().Str("cron", a.cfg.Schedule.EvaluateCron).Msg("hedgemirror is running, press Ctrl+C to stop")
			<-ctx.Done()
			a.logger.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "evaluate every fund immediately")
	return cmd
}
