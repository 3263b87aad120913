package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	"github.com/msuny-c/fdb-viewer/internal/infra/config"
	"github.com/msuny-c/fdb-viewer/pkg/logger"
)

// cli holds state shared by every subcommand once the root pre-run has loaded it.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger

	dir       string
	threshold float64
	bonus     float64
}

func newRootCmd() *cobra.Command {
	app := &cli{}
	root := &cobra.Command{
		Use:   "fdbclip",
		Short: "Answer questions from FDB banks via the clipboard",
		Long: `fdbclip loads every *.fdb question bank from a directory and answers
the question currently in the clipboard with the best matching entry.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&app.dir, "dir", "", "directory with *.fdb files (default from config)")
	flags.Float64Var(&app.threshold, "threshold", -1, "minimum similarity for a match (default from config)")
	flags.Float64Var(&app.bonus, "bonus", -1, "score bonus for containment matches (default from config)")

	root.AddCommand(
		newRunCmd(app),
		newAnswerCmd(app),
		newTokenCmd(app),
	)
	return root
}

func (a *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dir != "" {
		cfg.Lookup.FDBDir = a.dir
	}
	if a.threshold >= 0 {
		cfg.Lookup.Threshold = a.threshold
	}
	if a.bonus >= 0 {
		cfg.Lookup.Bonus = a.bonus
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "text"
	}
	a.cfg = cfg
	a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"), format)
	return nil
}

func (a *cli) lookupConfig() lookup.Config {
	return lookup.Config{Threshold: a.cfg.Lookup.Threshold, Bonus: a.cfg.Lookup.Bonus}
}

func (a *cli) debounce() time.Duration {
	return a.cfg.Lookup.Debounce
}
