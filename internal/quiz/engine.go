package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
)

var ErrIncompleteSubmission = errors.New("all questions must be answered")

// CatalogStore is the slice of the catalog the engine needs: the quiz row
// (for the pass boundary) and its ordered question set with answer keys.
type CatalogStore interface {
	GetQuiz(ctx context.Context, id string) (catalog.Quiz, error)
	QuestionsByQuiz(ctx context.Context, quizID string) ([]catalog.Question, error)
}

// AttemptStore persists graded attempts.
type AttemptStore interface {
	InsertAttempt(ctx context.Context, a Attempt) (Attempt, error)
}

type Engine struct {
	catalog  CatalogStore
	attempts AttemptStore
}

func NewEngine(c CatalogStore, a AttemptStore) *Engine {
	return &Engine{catalog: c, attempts: a}
}

// SubmitQuiz grades answers, records the attempt unconditionally of pass or
// fail, and returns the recorded row. An incomplete answer set is rejected
// before anything is written.
func (e *Engine) SubmitQuiz(ctx context.Context, userID, quizID string, answers map[string]int) (Attempt, error) {
	qz, err := e.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}
	questions, err := e.catalog.QuestionsByQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}
	if len(answers) != len(questions) {
		return Attempt{}, fmt.Errorf("%w: got %d answers for %d questions",
			ErrIncompleteSubmission, len(answers), len(questions))
	}

	score := ScoreAnswers(questions, answers)
	passed := score >= qz.PassingScore // exactly the passing score is a pass

	a, err := e.attempts.InsertAttempt(ctx, Attempt{
		UserID:  userID,
		QuizID:  quizID,
		Score:   score,
		Passed:  passed,
		Answers: answers,
	})
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}
