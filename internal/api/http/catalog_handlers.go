package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
)

// Public catalog reads. The whole curriculum is browsable without a login;
// only progress tracking and quiz taking require one.

func ListCoursesHandler(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		out, err := store.ListCourses(r.Context())
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}

func GetCourseHandler(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		c, err := store.GetCourseWithModules(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func GetModuleHandler(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		m, err := store.GetModuleWithDetails(r.Context(), chi.URLParam(r, "moduleID"))
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, m)
	}
}

func GetLessonHandler(store *catalog.SQLStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		l, err := store.GetLesson(r.Context(), chi.URLParam(r, "lessonID"))
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, l)
	}
}
