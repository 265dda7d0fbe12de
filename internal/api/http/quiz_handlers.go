package http

import (
	"encoding/json"
	"errors"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/excel-with-hussain/excel-lms/internal/activity"
	authmw "github.com/excel-with-hussain/excel-lms/internal/auth/middleware"
	"github.com/excel-with-hussain/excel-lms/internal/catalog"
	"github.com/excel-with-hussain/excel-lms/internal/quiz"
	"github.com/excel-with-hussain/excel-lms/internal/rbac"
)

func GetQuizHandler(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, q)
	}
}

// GetQuizQuestionsHandler serves the ordered question set. Answer keys are
// stripped for students until they have at least one recorded attempt, so a
// review screen can show the correct answers after submission but never
// before. Admins always see the keys.
func GetQuizQuestionsHandler(store *catalog.SQLStore, attempts *quiz.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		quizID := chi.URLParam(r, "quizID")
		if _, err := store.GetQuiz(r.Context(), quizID); err != nil {
			notFoundOr(w, err)
			return
		}
		qs, err := store.QuestionsByQuiz(r.Context(), quizID)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		if rbac.RoleFromContext(r.Context()) != "admin" {
			userID := authmw.SubjectFromContext(r.Context())
			attempted, err := attempts.HasAttempt(r.Context(), userID, quizID)
			if err != nil {
				nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
				return
			}
			if !attempted {
				qs = catalog.StripAnswerKeys(qs)
			}
		}
		writeJSON(w, qs)
	}
}

// SubmitQuizHandler grades a full answer set and records the attempt.
func SubmitQuizHandler(engine *quiz.Engine, alog *activity.Log) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		quizID := chi.URLParam(r, "quizID")
		var req struct {
			Answers map[string]int `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		a, err := engine.SubmitQuiz(r.Context(), userID, quizID, req.Answers)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			nethttp.Error(w, "quiz not found", nethttp.StatusNotFound)
			return
		case errors.Is(err, quiz.ErrIncompleteSubmission):
			nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
			return
		case err != nil:
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		alog.Record(r.Context(), userID, activity.TypeQuizSubmitted, quizID,
			quiz.Result{Score: a.Score, Passed: a.Passed})
		writeJSON(w, a)
	}
}

func ListQuizAttemptsHandler(store *quiz.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		out, err := store.ListQuizAttempts(r.Context(), userID, chi.URLParam(r, "quizID"))
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}

func BestAttemptHandler(store *quiz.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		a, err := store.BestAttempt(r.Context(), userID, chi.URLParam(r, "quizID"))
		if errors.Is(err, quiz.ErrNoAttempts) {
			nethttp.Error(w, "no attempts", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, a)
	}
}

func ListMyAttemptsHandler(store *quiz.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		out, err := store.ListUserAttempts(r.Context(), userID)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}
