package quiz

import (
	"math"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
)

// ScoreAnswers grades a full answer set against the question set and returns
// the rounded percent score. Grading is deterministic: the same answers
// against the same questions always produce the same score. A quiz with zero
// questions scores 0 (division-by-zero guard).
func ScoreAnswers(questions []catalog.Question, answers map[string]int) int {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range questions {
		if q.CorrectAnswer == nil {
			continue
		}
		if chosen, ok := answers[q.ID]; ok && chosen == *q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}
