package http

import (
	"strconv"

	nethttp "net/http"

	"github.com/excel-with-hussain/excel-lms/internal/activity"
)

// GET /admin/activity?limit=50: recent platform activity, newest first.
func RecentActivityHandler(alog *activity.Log) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := alog.Recent(r.Context(), limit)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}
