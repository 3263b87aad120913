package fdb

// QuestionType identifies how the answers of a question are meant to be read.
type QuestionType int

const (
	// TypeSingle is a single-choice question; the first answer is the correct one.
	TypeSingle QuestionType = 1
	// TypeMulti is a multi-choice question; the first CorrectCount answers are correct.
	TypeMulti QuestionType = 2
	// TypeOrdering expects all answers in the stored order.
	TypeOrdering QuestionType = 3
	// TypeMatching pairs answers; the stored order is the solution.
	TypeMatching QuestionType = 6
	// TypeFreeText expects a typed answer; the first answer is the reference text.
	TypeFreeText QuestionType = 7
)

// Question is a decoded question record.
type Question struct {
	ID           string       `json:"id"`
	Prompt       string       `json:"question"`
	Type         QuestionType `json:"type"`
	CorrectCount int          `json:"right"`
	Answers      []string     `json:"answers"`
}

// Corpus holds the questions produced by one decode pass over one source.
type Corpus struct {
	Questions map[string]Question
	// Order lists ids by first appearance so iteration is deterministic.
	Order []string
	// Duplicates counts blocks that overwrote an earlier block with the same id.
	Duplicates int
}

func newCorpus() Corpus {
	return Corpus{Questions: make(map[string]Question)}
}

func (c *Corpus) put(q Question) {
	if c.Questions == nil {
		c.Questions = make(map[string]Question)
	}
	if _, exists := c.Questions[q.ID]; exists {
		c.Duplicates++
	} else {
		c.Order = append(c.Order, q.ID)
	}
	c.Questions[q.ID] = q
}

// Len reports the number of distinct questions.
func (c Corpus) Len() int {
	return len(c.Order)
}

// List returns the questions in first-appearance order.
func (c Corpus) List() []Question {
	out := make([]Question, 0, len(c.Order))
	for _, id := range c.Order {
		out = append(out, c.Questions[id])
	}
	return out
}
