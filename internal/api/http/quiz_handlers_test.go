package http_test

import (
	"context"
	"database/sql"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite" // driver for "sqlite"

	"github.com/excel-with-hussain/excel-lms/internal/activity"
	api "github.com/excel-with-hussain/excel-lms/internal/api/http"
	authmw "github.com/excel-with-hussain/excel-lms/internal/auth/middleware"
	"github.com/excel-with-hussain/excel-lms/internal/catalog"
	"github.com/excel-with-hussain/excel-lms/internal/db"
	"github.com/excel-with-hussain/excel-lms/internal/quiz"
	"github.com/excel-with-hussain/excel-lms/internal/rbac"
)

type fixture struct {
	dbh     *sql.DB
	catalog *catalog.SQLStore
	quizID  string
	qids    []string
}

// newFixture builds a sqlite-backed catalog with one 2-question quiz
// (passing score 75) and returns everything a handler test needs.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?cache=shared&mode=rwc"
	dbh, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	if err := db.EnsureSchema(ctx, dbh, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	cs := catalog.NewSQLStore(dbh)
	course, err := cs.CreateCourse(ctx, catalog.Course{Title: "Charts", Level: 2})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	mod, err := cs.CreateModule(ctx, catalog.Module{CourseID: course.ID, Title: "Bar Charts"})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	qz, err := cs.CreateQuiz(ctx, catalog.Quiz{ModuleID: mod.ID, Title: "Chart Check", PassingScore: 75})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	f := &fixture{dbh: dbh, catalog: cs, quizID: qz.ID}
	for i := 0; i < 2; i++ {
		key := 0
		q, err := cs.CreateQuestion(ctx, catalog.Question{
			QuizID:        qz.ID,
			Question:      "which chart type?",
			Options:       []string{"bar", "pie"},
			CorrectAnswer: &key,
			OrderIndex:    i,
		})
		if err != nil {
			t.Fatalf("create question: %v", err)
		}
		f.qids = append(f.qids, q.ID)
	}
	return f
}

func authedRequest(method, target, body, role string) *nethttp.Request {
	var r *nethttp.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := authmw.WithSubject(r.Context(), "u1")
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func newQuizRouter(f *fixture) chi.Router {
	eng := quiz.NewEngine(f.catalog, quiz.NewSQLStore(f.dbh))
	alog := activity.NewLog(f.dbh)
	r := chi.NewRouter()
	r.Get("/quizzes/{quizID}/questions", api.GetQuizQuestionsHandler(f.catalog, quiz.NewSQLStore(f.dbh)))
	r.Post("/quizzes/{quizID}/attempts", api.SubmitQuizHandler(eng, alog))
	r.Get("/quizzes/{quizID}/attempts/best", api.BestAttemptHandler(quiz.NewSQLStore(f.dbh)))
	return r
}

func TestGetQuizQuestions_StripsKeysForStudents(t *testing.T) {
	f := newFixture(t)
	r := newQuizRouter(f)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodGet, "/quizzes/"+f.quizID+"/questions", "", "student"))
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var qs []catalog.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &qs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	for _, q := range qs {
		if q.CorrectAnswer != nil {
			t.Fatalf("answer key leaked to student: %+v", q)
		}
	}
	if strings.Contains(rec.Body.String(), "correct_answer") {
		t.Fatalf("correct_answer field present in student payload")
	}
}

func TestGetQuizQuestions_RevealsKeysAfterAttempt(t *testing.T) {
	f := newFixture(t)
	r := newQuizRouter(f)

	body, _ := json.Marshal(map[string]any{
		"answers": map[string]int{f.qids[0]: 0, f.qids[1]: 0},
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodPost, "/quizzes/"+f.quizID+"/attempts", string(body), "student"))
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("submit status %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodGet, "/quizzes/"+f.quizID+"/questions", "", "student"))
	var qs []catalog.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &qs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, q := range qs {
		if q.CorrectAnswer == nil {
			t.Fatalf("keys should be visible for review after an attempt: %+v", q)
		}
	}
}

func TestGetQuizQuestions_KeepsKeysForAdmins(t *testing.T) {
	f := newFixture(t)
	r := newQuizRouter(f)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodGet, "/quizzes/"+f.quizID+"/questions", "", "admin"))
	var qs []catalog.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &qs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, q := range qs {
		if q.CorrectAnswer == nil {
			t.Fatalf("admin should see answer keys: %+v", q)
		}
	}
}

func TestSubmitQuiz_EndToEnd(t *testing.T) {
	f := newFixture(t)
	r := newQuizRouter(f)

	body, _ := json.Marshal(map[string]any{
		"answers": map[string]int{f.qids[0]: 0, f.qids[1]: 1},
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodPost, "/quizzes/"+f.quizID+"/attempts", string(body), "student"))
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var a quiz.Attempt
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 1 of 2 correct with a 75 boundary
	if a.Score != 50 || a.Passed {
		t.Fatalf("expected failing score 50, got %+v", a)
	}

	// the failed attempt is now the best one
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodGet, "/quizzes/"+f.quizID+"/attempts/best", "", "student"))
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("best attempt status %d", rec.Code)
	}

	// quiz submission lands in the activity feed
	events, err := activity.NewLog(f.dbh).Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 || events[0].Type != activity.TypeQuizSubmitted {
		t.Fatalf("expected one QuizSubmitted event, got %+v", events)
	}
}

func TestSubmitQuiz_IncompleteRejected(t *testing.T) {
	f := newFixture(t)
	r := newQuizRouter(f)

	body, _ := json.Marshal(map[string]any{
		"answers": map[string]int{f.qids[0]: 0},
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodPost, "/quizzes/"+f.quizID+"/attempts", string(body), "student"))
	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}

	var n int
	if err := f.dbh.QueryRow(`SELECT COUNT(1) FROM quiz_attempts`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("incomplete submission was recorded (%d rows)", n)
	}
}

func TestSubmitQuiz_UnknownQuiz(t *testing.T) {
	f := newFixture(t)
	r := newQuizRouter(f)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(nethttp.MethodPost, "/quizzes/nope/attempts", `{"answers":{}}`, "student"))
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}
