package models

import (
	"fmt"
	"strings"
)

// OptionLabels lists the labels every quiz question must carry, in order.
var OptionLabels = []string{"A", "B", "C", "D"}

// QuestionOption is one labelled choice of a quiz question.
type QuestionOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question is a multiple-choice item embedded in chapters and assignments.
type Question struct {
	Question      string           `json:"question"`
	Options       []QuestionOption `json:"options"`
	CorrectAnswer string           `json:"correct_answer"`
}

// Validate checks that the question has exactly four options labelled A-D and that the
// correct answer references one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) != len(OptionLabels) {
		return fmt.Errorf("question must have exactly %d options", len(OptionLabels))
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, option := range q.Options {
		label := strings.ToUpper(strings.TrimSpace(option.Label))
		if !isOptionLabel(label) {
			return fmt.Errorf("invalid option label %q", option.Label)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("duplicate option label %q", label)
		}
		seen[label] = struct{}{}
	}

	if _, ok := seen[strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))]; !ok {
		return fmt.Errorf("correct answer %q does not match any option", q.CorrectAnswer)
	}

	return nil
}

// IsCorrect reports whether label selects the correct option.
func (q Question) IsCorrect(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(q.CorrectAnswer))
}

// Snapshot returns a deep copy so later edits to the source question never alter graded answers.
func (q Question) Snapshot() Question {
	options := make([]QuestionOption, len(q.Options))
	copy(options, q.Options)
	return Question{
		Question:      q.Question,
		Options:       options,
		CorrectAnswer: q.CorrectAnswer,
	}
}

func isOptionLabel(label string) bool {
	for _, candidate := range OptionLabels {
		if candidate == label {
			return true
		}
	}
	return false
}
