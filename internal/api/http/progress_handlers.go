package http

import (
	"errors"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/excel-with-hussain/excel-lms/internal/activity"
	authmw "github.com/excel-with-hussain/excel-lms/internal/auth/middleware"
	"github.com/excel-with-hussain/excel-lms/internal/progress"
)

func MarkLessonCompleteHandler(store *progress.SQLStore, alog *activity.Log) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		lessonID := chi.URLParam(r, "lessonID")
		p, err := store.MarkLessonComplete(r.Context(), userID, lessonID)
		if errors.Is(err, progress.ErrLessonNotFound) {
			nethttp.Error(w, "lesson not found", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		alog.Record(r.Context(), userID, activity.TypeLessonCompleted, lessonID, p)
		writeJSON(w, p)
	}
}

func ListProgressHandler(store *progress.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		out, err := store.ListUserProgress(r.Context(), userID)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}

func ProgressStatsHandler(store *progress.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		st, err := store.GetProgressStats(r.Context(), userID)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, st)
	}
}
