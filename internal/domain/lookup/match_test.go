package lookup

import (
	"math"
	"testing"

	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
)

func testCorpus(prompts ...string) Corpus {
	questions := make([]fdb.Question, 0, len(prompts))
	for i, p := range prompts {
		questions = append(questions, fdb.Question{
			ID:           string(rune('a' + i)),
			Prompt:       p,
			Type:         fdb.TypeSingle,
			CorrectCount: 1,
			Answers:      []string{"answer " + p},
		})
	}
	return FromQuestions("test.fdb", questions)
}

func TestBestMatchExactQuery(t *testing.T) {
	corpus := testCorpus("Столица Германии?", "Столица Франции?")
	m := NewMatcher(DefaultConfig())

	match, ok := m.BestMatch("  столица   ФРАНЦИИ ", corpus)
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Entry.ID != "b" {
		t.Fatalf("expected entry b got %s", match.Entry.ID)
	}
	if !match.Contained || math.Abs(match.Score-1.1) > 1e-9 {
		t.Fatalf("expected contained exact match with score 1.1, got %+v", match)
	}
}

func TestBestMatchContainmentBonus(t *testing.T) {
	corpus := testCorpus("Столица Франции")
	m := Matcher{Threshold: 0.5, Bonus: 0.1}

	match, ok := m.BestMatch("столица", corpus)
	if !ok {
		t.Fatalf("expected a match")
	}
	if !match.Contained {
		t.Fatalf("expected containment")
	}
	want := math.Max(match.Spaced, match.Compact) + 0.1
	if math.Abs(match.Score-want) > 1e-9 {
		t.Fatalf("expected score %f got %f", want, match.Score)
	}
}

func TestBestMatchRejects(t *testing.T) {
	corpus := testCorpus("Столица Франции?", "Сколько будет 2+2?")
	m := NewMatcher(DefaultConfig())

	cases := []struct {
		name   string
		query  string
		corpus Corpus
	}{
		{name: "unrelated query", query: "zzzz qqqq wwww", corpus: corpus},
		{name: "query normalizes to nothing", query: " ?! … ", corpus: corpus},
		{name: "empty corpus", query: "Столица Франции?", corpus: nil},
	}
	for _, tc := range cases {
		if match, ok := m.BestMatch(tc.query, tc.corpus); ok {
			t.Fatalf("%s: expected no match, got %+v", tc.name, match)
		}
	}
}

func TestBestMatchTieKeepsFirst(t *testing.T) {
	corpus := testCorpus("Одинаковый вопрос", "Одинаковый вопрос")
	match, ok := NewMatcher(DefaultConfig()).BestMatch("одинаковый вопрос", corpus)
	if !ok || match.Entry.ID != "a" {
		t.Fatalf("expected first entry to win the tie, got %+v", match)
	}
}

func TestBestMatchThresholdIsInclusive(t *testing.T) {
	corpus := testCorpus("bcde")

	if _, ok := (Matcher{Threshold: 0.75}).BestMatch("abcd", corpus); !ok {
		t.Fatalf("score equal to the threshold should match")
	}
	if _, ok := (Matcher{Threshold: 0.76}).BestMatch("abcd", corpus); ok {
		t.Fatalf("score below the threshold should not match")
	}
}
