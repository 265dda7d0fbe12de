package http

import (
	"io"
	"path"
	"strings"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/excel-with-hussain/excel-lms/internal/storage"
)

// POST /assets/lessons/{lessonID} with multipart field "file": lesson asset
// upload (videos, workbooks). Mounted behind rbac.Require("catalog:edit").
func UploadLessonAssetHandler(bs storage.BlobStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		lessonID := chi.URLParam(r, "lessonID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			nethttp.Error(w, "file required", nethttp.StatusBadRequest)
			return
		}
		defer f.Close()

		name := path.Base(hdr.Filename)
		if name == "" || name == "." || name == "/" {
			name = "upload.bin"
		}
		key := "lessons/" + lessonID + "/" + name
		if _, err := bs.Put(key, f); err != nil {
			nethttp.Error(w, "store error: "+err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"key": key})
	}
}

// GET /assets/* serves the blob at whatever follows /assets/. Keys are
// public once a lesson links them via video_url.
func GetAssetHandler(bs storage.BlobStore) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			nethttp.Error(w, "not found", nethttp.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}
