package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
	"github.com/excel-with-hussain/excel-lms/internal/quiz"
)

type fakeCatalog struct {
	quiz      catalog.Quiz
	questions []catalog.Question
}

func (f *fakeCatalog) GetQuiz(ctx context.Context, id string) (catalog.Quiz, error) {
	if id != f.quiz.ID {
		return catalog.Quiz{}, catalog.ErrNotFound
	}
	return f.quiz, nil
}

func (f *fakeCatalog) QuestionsByQuiz(ctx context.Context, quizID string) ([]catalog.Question, error) {
	return f.questions, nil
}

type fakeAttempts struct {
	inserted []quiz.Attempt
}

func (f *fakeAttempts) InsertAttempt(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	a.ID = "attempt-1"
	f.inserted = append(f.inserted, a)
	return a, nil
}

func newFixture(passingScore int, questions int) (*quiz.Engine, *fakeAttempts) {
	att := &fakeAttempts{}
	cat := &fakeCatalog{
		quiz:      catalog.Quiz{ID: "quiz-1", Title: "Formulas", PassingScore: passingScore},
		questions: questionSet(questions),
	}
	return quiz.NewEngine(cat, att), att
}

func TestSubmitQuiz_ExactPassingScorePasses(t *testing.T) {
	eng, att := newFixture(75, 4)
	a, err := eng.SubmitQuiz(context.Background(), "u1", "quiz-1",
		map[string]int{"qa": 0, "qb": 0, "qc": 0, "qd": 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Score != 75 || !a.Passed {
		t.Fatalf("score 75 with boundary 75 must pass, got %+v", a)
	}
	if len(att.inserted) != 1 {
		t.Fatalf("expected 1 recorded attempt, got %d", len(att.inserted))
	}
}

func TestSubmitQuiz_BelowBoundaryFailsButRecords(t *testing.T) {
	eng, att := newFixture(75, 4)
	a, err := eng.SubmitQuiz(context.Background(), "u1", "quiz-1",
		map[string]int{"qa": 0, "qb": 0, "qc": 1, "qd": 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Score != 50 || a.Passed {
		t.Fatalf("score 50 with boundary 75 must fail, got %+v", a)
	}
	// failed attempts are recorded too
	if len(att.inserted) != 1 || att.inserted[0].Passed {
		t.Fatalf("failed attempt not recorded as failed: %+v", att.inserted)
	}
}

func TestSubmitQuiz_IncompleteRejectedBeforeWrite(t *testing.T) {
	eng, att := newFixture(70, 4)
	_, err := eng.SubmitQuiz(context.Background(), "u1", "quiz-1",
		map[string]int{"qa": 0, "qb": 0})
	if !errors.Is(err, quiz.ErrIncompleteSubmission) {
		t.Fatalf("expected ErrIncompleteSubmission, got %v", err)
	}
	if len(att.inserted) != 0 {
		t.Fatalf("incomplete submission must not be recorded, got %d rows", len(att.inserted))
	}
}

func TestSubmitQuiz_UnknownQuiz(t *testing.T) {
	eng, _ := newFixture(70, 2)
	_, err := eng.SubmitQuiz(context.Background(), "u1", "missing", map[string]int{})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestSubmitQuiz_ZeroQuestions(t *testing.T) {
	// an empty quiz scores 0, so it passes only when the boundary is 0
	eng, _ := newFixture(0, 0)
	a, err := eng.SubmitQuiz(context.Background(), "u1", "quiz-1", map[string]int{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Score != 0 || !a.Passed {
		t.Fatalf("empty quiz with boundary 0 should pass with score 0, got %+v", a)
	}

	eng2, _ := newFixture(70, 0)
	a2, err := eng2.SubmitQuiz(context.Background(), "u1", "quiz-1", map[string]int{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a2.Passed {
		t.Fatalf("empty quiz with boundary 70 must not pass, got %+v", a2)
	}
}
