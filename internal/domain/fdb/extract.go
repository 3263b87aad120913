package fdb

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	promptPattern = regexp.MustCompile(`(?is)<question>(.*?)</question>`)
	typePattern   = regexp.MustCompile(`type\s*=\s*(\d+)`)
	rightPattern  = regexp.MustCompile(`right\s*=\s*(\d+)`)
	answerPattern = regexp.MustCompile(`(?is)<a_\d+>(.*?)</a_\d+>`)

	lineBreaks = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")
)

// ExtractQuestions parses decoded tag snippets into a corpus keyed by question id.
// A later block with an id already seen replaces the earlier one.
func ExtractQuestions(decoded string) Corpus {
	corpus := newCorpus()
	for _, span := range scanTagSpans(decoded) {
		q, ok := extractQuestion(span)
		if !ok {
			continue
		}
		corpus.put(q)
	}
	return corpus
}

func extractQuestion(span tagSpan) (Question, bool) {
	if span.ID == "" {
		return Question{}, false
	}
	block := span.Body
	return Question{
		ID:           span.ID,
		Prompt:       extractPrompt(block),
		Type:         QuestionType(extractInt(typePattern, block, int(TypeSingle), 0)),
		CorrectCount: extractInt(rightPattern, block, 1, 1),
		Answers:      extractAnswers(block),
	}, true
}

func extractPrompt(block string) string {
	m := promptPattern.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(lineBreaks.Replace(strings.TrimSpace(m[1])))
}

// extractInt returns the first integer captured by pattern, or def when it is
// missing, unparsable or below floor.
func extractInt(pattern *regexp.Regexp, block string, def, floor int) int {
	m := pattern.FindStringSubmatch(block)
	if m == nil {
		return def
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v < floor {
		return def
	}
	return v
}

// extractAnswers keeps document order; the numeric suffix of a_N is not a sort key.
func extractAnswers(block string) []string {
	matches := answerPattern.FindAllStringSubmatch(block, -1)
	answers := make([]string, 0, len(matches))
	for _, m := range matches {
		answers = append(answers, strings.TrimSpace(m[1]))
	}
	return answers
}
