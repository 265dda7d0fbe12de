package http

import (
	"context"
	"encoding/json"
	"strings"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
)

// Admin-only content authoring. Routes are mounted behind
// rbac.Require("catalog:edit") in main.go; these handlers assume that check
// already ran.

func MountAdminCatalog(r chi.Router, store *catalog.SQLStore) {
	r.Post("/courses", createCourse(store))
	r.Put("/courses/{courseID}", updateCourse(store))
	r.Delete("/courses/{courseID}", deleteByID(store.DeleteCourse, "courseID"))

	r.Post("/modules", createModule(store))
	r.Put("/modules/{moduleID}", updateModule(store))
	r.Delete("/modules/{moduleID}", deleteByID(store.DeleteModule, "moduleID"))

	r.Post("/lessons", createLesson(store))
	r.Put("/lessons/{lessonID}", updateLesson(store))
	r.Delete("/lessons/{lessonID}", deleteByID(store.DeleteLesson, "lessonID"))

	r.Post("/quizzes", createQuiz(store))
	r.Put("/quizzes/{quizID}", updateQuiz(store))
	r.Delete("/quizzes/{quizID}", deleteByID(store.DeleteQuiz, "quizID"))

	r.Post("/questions", createQuestion(store))
	r.Put("/questions/{questionID}", updateQuestion(store))
	r.Delete("/questions/{questionID}", deleteByID(store.DeleteQuestion, "questionID"))
}

func deleteByID(del func(ctx context.Context, id string) error, param string) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := del(r.Context(), chi.URLParam(r, param)); err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		w.WriteHeader(nethttp.StatusNoContent)
	}
}

func createCourse(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var c catalog.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil || strings.TrimSpace(c.Title) == "" {
			nethttp.Error(w, "bad json: title required", nethttp.StatusBadRequest)
			return
		}
		out, err := store.CreateCourse(r.Context(), c)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSONStatus(w, nethttp.StatusCreated, out)
	}
}

func updateCourse(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var c catalog.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		c.ID = chi.URLParam(r, "courseID")
		out, err := store.UpdateCourse(r.Context(), c)
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func createModule(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var m catalog.Module
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil ||
			strings.TrimSpace(m.Title) == "" || m.CourseID == "" {
			nethttp.Error(w, "bad json: course_id and title required", nethttp.StatusBadRequest)
			return
		}
		if _, err := store.GetCourse(r.Context(), m.CourseID); err != nil {
			notFoundOr(w, err)
			return
		}
		out, err := store.CreateModule(r.Context(), m)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSONStatus(w, nethttp.StatusCreated, out)
	}
}

func updateModule(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var m catalog.Module
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		m.ID = chi.URLParam(r, "moduleID")
		out, err := store.UpdateModule(r.Context(), m)
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func createLesson(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var l catalog.Lesson
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil ||
			strings.TrimSpace(l.Title) == "" || l.ModuleID == "" {
			nethttp.Error(w, "bad json: module_id and title required", nethttp.StatusBadRequest)
			return
		}
		if _, err := store.GetModule(r.Context(), l.ModuleID); err != nil {
			notFoundOr(w, err)
			return
		}
		out, err := store.CreateLesson(r.Context(), l)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSONStatus(w, nethttp.StatusCreated, out)
	}
}

func updateLesson(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var l catalog.Lesson
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		l.ID = chi.URLParam(r, "lessonID")
		out, err := store.UpdateLesson(r.Context(), l)
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func createQuiz(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var q catalog.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil ||
			strings.TrimSpace(q.Title) == "" || q.ModuleID == "" {
			nethttp.Error(w, "bad json: module_id and title required", nethttp.StatusBadRequest)
			return
		}
		if q.PassingScore < 0 || q.PassingScore > 100 {
			nethttp.Error(w, "passing_score must be 0-100", nethttp.StatusBadRequest)
			return
		}
		if _, err := store.GetModule(r.Context(), q.ModuleID); err != nil {
			notFoundOr(w, err)
			return
		}
		// one quiz per module
		if _, err := store.QuizByModule(r.Context(), q.ModuleID); err == nil {
			nethttp.Error(w, "module already has a quiz", nethttp.StatusConflict)
			return
		}
		out, err := store.CreateQuiz(r.Context(), q)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSONStatus(w, nethttp.StatusCreated, out)
	}
}

func updateQuiz(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var q catalog.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		if q.PassingScore < 0 || q.PassingScore > 100 {
			nethttp.Error(w, "passing_score must be 0-100", nethttp.StatusBadRequest)
			return
		}
		q.ID = chi.URLParam(r, "quizID")
		out, err := store.UpdateQuiz(r.Context(), q)
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func createQuestion(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var q catalog.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil ||
			strings.TrimSpace(q.Question) == "" || q.QuizID == "" {
			nethttp.Error(w, "bad json: quiz_id and question required", nethttp.StatusBadRequest)
			return
		}
		if len(q.Options) < 2 {
			nethttp.Error(w, "at least two options required", nethttp.StatusBadRequest)
			return
		}
		if _, err := store.GetQuiz(r.Context(), q.QuizID); err != nil {
			notFoundOr(w, err)
			return
		}
		out, err := store.CreateQuestion(r.Context(), q)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
			return
		}
		writeJSONStatus(w, nethttp.StatusCreated, out)
	}
}

func updateQuestion(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var q catalog.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		if len(q.Options) < 2 {
			nethttp.Error(w, "at least two options required", nethttp.StatusBadRequest)
			return
		}
		q.ID = chi.URLParam(r, "questionID")
		out, err := store.UpdateQuestion(r.Context(), q)
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, out)
	}
}
