package model

import "sort"

// SortedQuestions returns the template questions ordered ascending by Order.
// Questions sharing an Order value keep their original relative position. The
// template itself is never modified.
func (t Template) SortedQuestions() []Question {
	return SortQuestions(t.Questions)
}

// SortQuestions returns a stable-sorted copy of questions.
func SortQuestions(questions []Question) []Question {
	if len(questions) == 0 {
		return nil
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
