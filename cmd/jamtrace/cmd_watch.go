package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jamtrace/internal/watch"
)

// watchCmd parses the trace, then keeps re-parsing it as the build appends
// more output. Each pass parses the file into a fresh database: rule-call
// recording is append-only, so merging a full re-parse into the previous
// graph would duplicate every call already seen.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep re-parsing the trace file as the build writes to it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := load()
		if err != nil {
			return err
		}
		fmt.Printf("parsed %s: %d targets, %d rules\n", cfg.Log, db.NumTargets(), db.NumRules())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher, err := watch.NewWatcher(cfg.Log, time.Duration(cfg.WatchDebounce), func() {
			db, err := buildDatabase(cfg)
			if err != nil {
				logger.Warn("re-parse failed", zap.Error(err))
				return
			}
			fmt.Printf("re-parsed %s: %d targets, %d rules\n", cfg.Log, db.NumTargets(), db.NumRules())
		}, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()
		watcher.Stop()
		return nil
	},
}
