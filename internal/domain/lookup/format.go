package lookup

import (
	"errors"
	"strconv"
	"strings"

	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
)

// ErrNoAnswers reports a matched question that has nothing to provide.
var ErrNoAnswers = errors.New("question has no answers")

var answerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// FormatAnswer renders the answer of q according to its type:
//
//   - single choice and free text: the first answer
//   - multi choice: the first CorrectCount answers, numbered
//   - ordering and matching: every answer in stored order, numbered
//   - anything else: numbered like multi choice when there are several
//     answers, otherwise the first answer
//
// It returns ErrNoAnswers when there is nothing to render.
func FormatAnswer(q fdb.Question) (string, error) {
	if len(q.Answers) == 0 {
		return "", ErrNoAnswers
	}

	var text string
	switch q.Type {
	case fdb.TypeSingle, fdb.TypeFreeText:
		text = strings.TrimSpace(q.Answers[0])
	case fdb.TypeMulti:
		text = numbered(q.Answers[:correctCount(q)])
	case fdb.TypeOrdering, fdb.TypeMatching:
		text = numbered(q.Answers)
	default:
		if len(q.Answers) > 1 {
			text = numbered(q.Answers[:correctCount(q)])
		} else {
			text = strings.TrimSpace(q.Answers[0])
		}
	}
	if text == "" {
		return "", ErrNoAnswers
	}
	return text, nil
}

func correctCount(q fdb.Question) int {
	return min(max(1, q.CorrectCount), len(q.Answers))
}

func numbered(answers []string) string {
	lines := make([]string, 0, len(answers))
	for i, a := range answers {
		lines = append(lines, strconv.Itoa(i+1)+") "+strings.TrimSpace(answerBreaks.Replace(a)))
	}
	return strings.Join(lines, "\n")
}
