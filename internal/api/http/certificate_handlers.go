package http

import (
	"errors"

	nethttp "net/http"

	"github.com/excel-with-hussain/excel-lms/internal/activity"
	authmw "github.com/excel-with-hussain/excel-lms/internal/auth/middleware"
	"github.com/excel-with-hussain/excel-lms/internal/certificate"
)

func GetCertificateHandler(store certificate.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		c, err := store.GetByUser(r.Context(), userID)
		if errors.Is(err, certificate.ErrNotFound) {
			nethttp.Error(w, "no certificate", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, c)
	}
}

func EligibilityHandler(issuer *certificate.Issuer) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		ok, err := issuer.CheckEligibility(r.Context(), userID)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"eligible": ok})
	}
}

func GenerateCertificateHandler(issuer *certificate.Issuer, alog *activity.Log) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		c, err := issuer.Generate(r.Context(), userID)
		switch {
		case errors.Is(err, certificate.ErrNotEligible):
			nethttp.Error(w, err.Error(), nethttp.StatusConflict)
			return
		case errors.Is(err, certificate.ErrAlreadyIssued):
			nethttp.Error(w, err.Error(), nethttp.StatusConflict)
			return
		case err != nil:
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		alog.Record(r.Context(), userID, activity.TypeCertificateIssued, c.ID,
			map[string]string{"certificate_number": c.CertificateNumber})
		writeJSONStatus(w, nethttp.StatusCreated, c)
	}
}
