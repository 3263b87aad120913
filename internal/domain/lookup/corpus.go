package lookup

import (
	"sync"

	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
)

// Entry is a question prepared for matching. The normalized forms of the
// prompt are computed on first use and cached, so Prompt must not change
// once the entry is shared.
type Entry struct {
	fdb.Question
	// Source names where the question came from: a file name or a document id.
	Source string

	once    sync.Once
	spaced  string
	compact string
}

// NewEntry tags q with its source.
func NewEntry(source string, q fdb.Question) *Entry {
	return &Entry{Question: q, Source: source}
}

// Normalized returns the spaced comparison form of the prompt.
func (e *Entry) Normalized() string {
	e.prepare()
	return e.spaced
}

// Compact returns the comparison form of the prompt without whitespace.
func (e *Entry) Compact() string {
	e.prepare()
	return e.compact
}

func (e *Entry) prepare() {
	e.once.Do(func() {
		e.spaced = Normalize(e.Prompt)
		e.compact = compact(e.spaced)
	})
}

// Corpus is an ordered list of entries. Corpora from different sources are
// concatenated, never merged by id.
type Corpus []*Entry

// FromQuestions builds entries for one source. Prompts and answers are
// stripped of markup; questions left without a prompt are dropped and so are
// empty answers.
func FromQuestions(source string, questions []fdb.Question) Corpus {
	out := make(Corpus, 0, len(questions))
	for _, q := range questions {
		prompt := StripMarkup(q.Prompt)
		if prompt == "" {
			continue
		}
		answers := make([]string, 0, len(q.Answers))
		for _, a := range q.Answers {
			if cleaned := StripMarkup(a); cleaned != "" {
				answers = append(answers, cleaned)
			}
		}
		q.Prompt = prompt
		q.Answers = answers
		out = append(out, NewEntry(source, q))
	}
	return out
}

// FromCorpus builds entries for one decoded source in first-appearance order.
func FromCorpus(source string, c fdb.Corpus) Corpus {
	return FromQuestions(source, c.List())
}
