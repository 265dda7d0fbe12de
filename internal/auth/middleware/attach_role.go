package auth

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/excel-with-hussain/excel-lms/internal/rbac"
)

// AttachRoleFromDB replaces the token's role claim with the authoritative one
// from the profiles table, so a role toggled by an admin takes effect on the
// next request rather than at next login.
func AttachRoleFromDB(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)

			var role string
			err := db.QueryRowContext(ctx,
				`SELECT role FROM profiles WHERE id=$1`, sub).Scan(&role)
			switch {
			case err == nil && role != "":
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, sql.ErrNoRows):
				// token subject no longer exists
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "db error", http.StatusInternalServerError)
			}
		})
	}
}
