package lookup

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
)

const (
	// CodeNoMatch marks a query that matched no question above the threshold.
	CodeNoMatch = "no_match"
	// CodeTriggerUnavailable marks a trigger on a service without a source or sink.
	CodeTriggerUnavailable = "trigger_unavailable"
)

// ErrNoMatch reports a query without an acceptable match.
var ErrNoMatch = errors.New("no question matched the query")

// Source supplies the query text of a trigger, e.g. the clipboard contents.
type Source interface {
	Read(ctx context.Context) (string, error)
}

// Sink receives the rendered answer of a trigger.
type Sink interface {
	Write(ctx context.Context, text string) error
}

// Answer is the outcome of a lookup.
type Answer struct {
	Text       string  `json:"answer"`
	Score      float64 `json:"score"`
	QuestionID string  `json:"questionId"`
	Source     string  `json:"source"`
	// Empty is set when a question matched but has no answers to provide.
	Empty bool `json:"empty"`
}

// Service answers queries against an owned corpus. Every lookup runs under
// one lock: concurrent callers wait their turn and a corpus swap never
// interleaves with a lookup in flight.
type Service interface {
	Answer(ctx context.Context, query string) (Answer, error)
	HandleTrigger(ctx context.Context) (Answer, error)
	Replace(corpus Corpus)
	Len() int
}

type service struct {
	mu      sync.Mutex
	corpus  Corpus
	matcher Matcher
	source  Source
	sink    Sink
	logger  *slog.Logger
}

// NewService wires the lookup domain. source and sink may be nil when only
// Answer is used.
func NewService(cfg Config, corpus Corpus, source Source, sink Sink, logger *slog.Logger) Service {
	return &service{
		corpus:  corpus,
		matcher: NewMatcher(cfg),
		source:  source,
		sink:    sink,
		logger:  logger.With("component", "lookup.service"),
	}
}

func (s *service) Answer(_ context.Context, query string) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer(query)
}

func (s *service) HandleTrigger(ctx context.Context) (Answer, error) {
	if s.source == nil || s.sink == nil {
		return Answer{}, apperrors.Wrap(CodeTriggerUnavailable, "trigger needs a source and a sink", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query, err := s.source.Read(ctx)
	if err != nil {
		return Answer{}, apperrors.Wrap("source_error", "failed to read query", err)
	}
	answer, err := s.answer(query)
	if err != nil {
		if apperrors.IsCode(err, CodeNoMatch) {
			s.logger.Info("no match, sink left untouched")
		}
		return Answer{}, err
	}
	if answer.Empty {
		s.logger.Warn("matched question has no answers", "source", answer.Source, "questionId", answer.QuestionID)
		return answer, nil
	}
	if err := s.sink.Write(ctx, answer.Text); err != nil {
		return Answer{}, apperrors.Wrap("sink_error", "failed to deliver answer", err)
	}
	s.logger.Info("answer delivered", "source", answer.Source, "questionId", answer.QuestionID, "score", answer.Score)
	return answer, nil
}

func (s *service) answer(query string) (Answer, error) {
	match, ok := s.matcher.BestMatch(query, s.corpus)
	if !ok {
		return Answer{}, apperrors.Wrap(CodeNoMatch, "no question matched the query", ErrNoMatch)
	}
	answer := Answer{
		Score:      match.Score,
		QuestionID: match.Entry.ID,
		Source:     match.Entry.Source,
	}
	text, err := FormatAnswer(match.Entry.Question)
	if errors.Is(err, ErrNoAnswers) {
		answer.Empty = true
		return answer, nil
	}
	answer.Text = text
	return answer, nil
}

func (s *service) Replace(corpus Corpus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = corpus
	s.logger.Info("corpus replaced", "questions", len(corpus))
}

func (s *service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.corpus)
}
