package progress_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // driver for "sqlite"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
	"github.com/excel-with-hussain/excel-lms/internal/db"
	"github.com/excel-with-hussain/excel-lms/internal/progress"
	"github.com/excel-with-hussain/excel-lms/internal/quiz"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?cache=shared&mode=rwc"
	dbh, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	if err := db.EnsureSchema(context.Background(), dbh, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return dbh
}

// seedCatalog builds n lessons and m quizzes under one course/module and
// returns their ids.
func seedCatalog(t *testing.T, dbh *sql.DB, lessons, quizzes int) (lessonIDs, quizIDs []string) {
	t.Helper()
	ctx := context.Background()
	cs := catalog.NewSQLStore(dbh)
	course, err := cs.CreateCourse(ctx, catalog.Course{Title: "Excel Basics", Level: 1})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	mod, err := cs.CreateModule(ctx, catalog.Module{CourseID: course.ID, Title: "Getting Started"})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	for i := 0; i < lessons; i++ {
		l, err := cs.CreateLesson(ctx, catalog.Lesson{ModuleID: mod.ID, Title: "Lesson", Content: "body", OrderIndex: i})
		if err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		lessonIDs = append(lessonIDs, l.ID)
	}
	for i := 0; i < quizzes; i++ {
		// separate module per quiz: a module owns at most one quiz
		qm, err := cs.CreateModule(ctx, catalog.Module{CourseID: course.ID, Title: "Quiz Module", OrderIndex: i + 1})
		if err != nil {
			t.Fatalf("create quiz module: %v", err)
		}
		q, err := cs.CreateQuiz(ctx, catalog.Quiz{ModuleID: qm.ID, Title: "Check", PassingScore: 70})
		if err != nil {
			t.Fatalf("create quiz: %v", err)
		}
		quizIDs = append(quizIDs, q.ID)
	}
	return lessonIDs, quizIDs
}

func TestGetProgressStats_UnknownUserAllZero(t *testing.T) {
	dbh := newTestDB(t)
	seedCatalog(t, dbh, 4, 2)
	st, err := progress.NewSQLStore(dbh).GetProgressStats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.CompletedLessons != 0 || st.PassedQuizzes != 0 || st.OverallProgress != 0 {
		t.Fatalf("expected zero progress, got %+v", st)
	}
	if st.TotalLessons != 4 || st.TotalQuizzes != 2 {
		t.Fatalf("expected catalog totals 4/2, got %+v", st)
	}
}

func TestGetProgressStats_EmptyCatalog(t *testing.T) {
	dbh := newTestDB(t)
	st, err := progress.NewSQLStore(dbh).GetProgressStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.OverallProgress != 0 {
		t.Fatalf("empty catalog must yield 0, got %d", st.OverallProgress)
	}
}

func TestMarkLessonComplete_Idempotent(t *testing.T) {
	dbh := newTestDB(t)
	lessonIDs, _ := seedCatalog(t, dbh, 2, 0)
	ps := progress.NewSQLStore(dbh)
	ctx := context.Background()

	first, err := ps.MarkLessonComplete(ctx, "u1", lessonIDs[0])
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	second, err := ps.MarkLessonComplete(ctx, "u1", lessonIDs[0])
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same row on repeat completion, got %q then %q", first.ID, second.ID)
	}

	var n int
	if err := dbh.QueryRow(`SELECT COUNT(1) FROM user_progress WHERE user_id='u1'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 row, got %d", n)
	}
	if !second.Completed || second.CompletedAt == nil {
		t.Fatalf("row not completed: %+v", second)
	}
}

func TestMarkLessonComplete_UnknownLesson(t *testing.T) {
	dbh := newTestDB(t)
	_, err := progress.NewSQLStore(dbh).MarkLessonComplete(context.Background(), "u1", "missing")
	if err != progress.ErrLessonNotFound {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestGetProgressStats_DeduplicatesPassedQuizzes(t *testing.T) {
	dbh := newTestDB(t)
	_, quizIDs := seedCatalog(t, dbh, 0, 1)
	ctx := context.Background()
	as := quiz.NewSQLStore(dbh)

	for _, a := range []quiz.Attempt{
		{UserID: "u1", QuizID: quizIDs[0], Score: 50, Passed: false},
		{UserID: "u1", QuizID: quizIDs[0], Score: 80, Passed: true},
		{UserID: "u1", QuizID: quizIDs[0], Score: 100, Passed: true},
	} {
		if _, err := as.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}

	st, err := progress.NewSQLStore(dbh).GetProgressStats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.PassedQuizzes != 1 {
		t.Fatalf("two passes of one quiz must count once, got %d", st.PassedQuizzes)
	}
}

func TestGetProgressStats_FullCompletion(t *testing.T) {
	dbh := newTestDB(t)
	lessonIDs, quizIDs := seedCatalog(t, dbh, 10, 3)
	ctx := context.Background()
	ps := progress.NewSQLStore(dbh)
	as := quiz.NewSQLStore(dbh)

	for _, id := range lessonIDs {
		if _, err := ps.MarkLessonComplete(ctx, "u1", id); err != nil {
			t.Fatalf("complete lesson: %v", err)
		}
	}
	for _, id := range quizIDs {
		// a failed attempt first; the later pass still counts the quiz once
		if _, err := as.InsertAttempt(ctx, quiz.Attempt{UserID: "u1", QuizID: id, Score: 40, Passed: false}); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
		if _, err := as.InsertAttempt(ctx, quiz.Attempt{UserID: "u1", QuizID: id, Score: 90, Passed: true}); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}

	st, err := ps.GetProgressStats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.CompletedLessons != 10 || st.PassedQuizzes != 3 || st.OverallProgress != 100 {
		t.Fatalf("expected 10/3/100, got %+v", st)
	}
}
