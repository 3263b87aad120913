// Package source loads FDB question banks from a directory and keeps them
// fresh while the directory changes.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
)

// Extension marks question bank files.
const Extension = ".fdb"

// LoadReport summarizes one directory load.
type LoadReport struct {
	Dir        string
	Files      int
	Skipped    []string
	Questions  int
	Duplicates int
}

// Loader decodes every question bank in a directory.
type Loader struct {
	workers  int
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// NewLoader builds a loader decoding up to workers files at once.
func NewLoader(workers int, logger *slog.Logger) *Loader {
	if workers <= 0 {
		workers = 4
	}
	return &Loader{
		workers:  workers,
		logger:   logger.With("component", "source.loader"),
		readFile: os.ReadFile,
	}
}

type fileResult struct {
	corpus     lookup.Corpus
	duplicates int
	err        error
}

// Load reads the *.fdb files of dir in name order and concatenates their
// questions. The directory is created when missing. A file that cannot be
// read is skipped with a warning; only a cancelled ctx or an unusable
// directory fail the load.
func (l *Loader) Load(ctx context.Context, dir string) (lookup.Corpus, LoadReport, error) {
	report := LoadReport{Dir: dir}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, report, fmt.Errorf("create fdb dir: %w", err)
	}
	files, err := listSources(dir)
	if err != nil {
		return nil, report, err
	}
	report.Files = len(files)

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.loadFile(filepath.Join(dir, name), name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	var corpus lookup.Corpus
	for i, res := range results {
		if res.err != nil {
			l.logger.Warn("fdb file skipped", "file", files[i], "error", res.err)
			report.Skipped = append(report.Skipped, files[i])
			continue
		}
		if res.duplicates > 0 {
			l.logger.Warn("duplicate question ids overwritten", "file", files[i], "duplicates", res.duplicates)
		}
		report.Duplicates += res.duplicates
		corpus = append(corpus, res.corpus...)
	}
	report.Questions = len(corpus)

	l.logger.Info("question banks loaded", "dir", dir, "files", report.Files, "questions", report.Questions, "skipped", len(report.Skipped))
	if report.Files == 0 {
		l.logger.Info("no .fdb files found, drop them into the directory and reload", "dir", dir)
	}
	return corpus, report, nil
}

func (l *Loader) loadFile(path, name string) fileResult {
	raw, err := l.readFile(path)
	if err != nil {
		return fileResult{err: err}
	}
	decoded := fdb.Decode(raw)
	return fileResult{
		corpus:     lookup.FromCorpus(name, decoded.Corpus),
		duplicates: decoded.Corpus.Duplicates,
	}
}

// listSources returns the question bank file names of dir in lexical order.
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fdb dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSource(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// IsSource reports whether name looks like a question bank file.
func IsSource(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}
