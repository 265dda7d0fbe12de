package http

import (
	"encoding/json"
	"errors"
	nethttp "net/http"

	"github.com/excel-with-hussain/excel-lms/internal/catalog"
)

func writeJSON(w nethttp.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w nethttp.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// notFoundOr maps catalog.ErrNotFound to 404 and everything else to 500.
func notFoundOr(w nethttp.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		nethttp.Error(w, "not found", nethttp.StatusNotFound)
		return
	}
	nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
}
