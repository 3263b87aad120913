package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	"github.com/msuny-c/fdb-viewer/internal/infra/clipboard"
	"github.com/msuny-c/fdb-viewer/internal/infra/source"
	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
	"github.com/msuny-c/fdb-viewer/pkg/metrics"
)

var errNoClipboard = errors.New("no clipboard utility found, install xclip, xsel or wl-clipboard")

func newRunCmd(app *cli) *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer the clipboard question on Enter or SIGUSR1",
		Long: `Loads the question banks and waits for triggers. Each line on stdin and
each SIGUSR1 reads the clipboard, finds the best matching question and
replaces the clipboard with its answers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clipboard.Available() {
				return errNoClipboard
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), app.cfg.Lookup.Watch && !noWatch)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the directory changes")
	return cmd
}

func (a *cli) run(ctx context.Context, stdin io.Reader, out io.Writer, watch bool) error {
	dir := a.cfg.Lookup.FDBDir
	loader := source.NewLoader(a.cfg.Lookup.Workers, a.logger)
	corpus, report, err := loader.Load(ctx, dir)
	if err != nil {
		return err
	}
	board := clipboard.New()
	svc := lookup.NewService(a.lookupConfig(), corpus, board, board, a.logger)

	if watch {
		watcher, err := source.NewWatcher(dir, loader, a.debounce(), func(corpus lookup.Corpus, _ source.LoadReport) {
			svc.Replace(corpus)
		}, a.logger)
		if err != nil {
			return fmt.Errorf("watch fdb dir: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return fmt.Errorf("watch fdb dir: %w", err)
		}
		defer watcher.Stop()
	}

	triggers := make(chan string)
	go readLines(ctx, stdin, triggers)
	if len(triggerSignals) > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, triggerSignals...)
		defer signal.Stop(sigCh)
		go forwardSignals(ctx, sigCh, triggers)
	}

	fmt.Fprintf(out, "loaded %d questions from %d files in %s\n", report.Questions, report.Files-len(report.Skipped), dir)
	fmt.Fprintf(out, "copy a question, then press Enter or run: kill -USR1 %d\n", os.Getpid())

	var stats metrics.Triggers
	serveTriggers(ctx, svc, triggers, out, &stats)

	counts := stats.Snapshot()
	a.logger.Info("trigger loop stopped", "answered", counts.Answered, "empty", counts.Empty, "missed", counts.Missed, "failed", counts.Failed)
	return nil
}

// serveTriggers handles triggers one at a time until ctx ends or triggers closes.
func serveTriggers(ctx context.Context, svc lookup.Service, triggers <-chan string, out io.Writer, stats *metrics.Triggers) {
	for {
		select {
		case <-ctx.Done():
			return
		case origin, ok := <-triggers:
			if !ok {
				return
			}
			answer, err := svc.HandleTrigger(ctx)
			report(out, origin, answer, err, stats)
		}
	}
}

func report(out io.Writer, origin string, answer lookup.Answer, err error, stats *metrics.Triggers) {
	switch {
	case err == nil && answer.Empty:
		stats.Empty()
		fmt.Fprintf(out, "[warn] no answers for %s #%s\n", answer.Source, answer.QuestionID)
	case err == nil:
		stats.Answered()
		fmt.Fprintf(out, "[ok] %s #%s score=%.2f\n", answer.Source, answer.QuestionID, answer.Score)
	case apperrors.IsCode(err, lookup.CodeNoMatch):
		stats.Missed()
		fmt.Fprintf(out, "[miss] nothing matched the clipboard (%s)\n", origin)
	default:
		stats.Failed()
		fmt.Fprintf(out, "[error] %v\n", err)
	}
}

// readLines emits one trigger per line of r. EOF ends stdin triggers only.
func readLines(ctx context.Context, r io.Reader, triggers chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case triggers <- "enter":
		case <-ctx.Done():
			return
		}
	}
}

func forwardSignals(ctx context.Context, sigCh <-chan os.Signal, triggers chan<- string) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			select {
			case triggers <- sig.String():
			case <-ctx.Done():
				return
			}
		}
	}
}
