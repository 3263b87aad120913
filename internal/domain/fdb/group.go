package fdb

import "sort"

// AllQuestionsGroup is the label of the single bucket produced by GroupQuestions.
const AllQuestionsGroup = "Все вопросы"

// Group is a named collection of questions handed to the presentation layer.
type Group struct {
	Name      string     `json:"group_name"`
	Questions []Question `json:"questions"`
}

// Grouped maps a group key to its collection.
type Grouped map[string]Group

// GroupQuestions wraps every question of the corpus into one "all questions" group.
func GroupQuestions(c Corpus) Grouped {
	return Grouped{
		"0": {Name: AllQuestionsGroup, Questions: c.List()},
	}
}

// Questions flattens the groups back into a list, ordered by group key.
func (g Grouped) Questions() []Question {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []Question
	for _, k := range keys {
		out = append(out, g[k].Questions...)
	}
	return out
}
