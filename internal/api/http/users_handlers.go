package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/excel-with-hussain/excel-lms/internal/auth/middleware"
)

type profileRow struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

func scanProfile(row *sql.Row) (profileRow, error) {
	var p profileRow
	var email sql.NullString
	err := row.Scan(&p.ID, &p.Username, &email, &p.Role, &p.CreatedAt)
	if email.Valid {
		p.Email = email.String
	}
	return p, err
}

// GET /me: profile of the authenticated user.
func MeHandler(db *sql.DB) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		p, err := scanProfile(db.QueryRowContext(r.Context(),
			`SELECT id,username,email,role,created_at FROM profiles WHERE id=$1`, sub))
		if errors.Is(err, sql.ErrNoRows) {
			nethttp.Error(w, "profile not found", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, p)
	}
}

// GET /admin/users: all profiles, newest first.
func ListProfilesHandler(db *sql.DB) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		role := r.URL.Query().Get("role")
		var rows *sql.Rows
		var err error
		if role == "" {
			rows, err = db.QueryContext(r.Context(),
				`SELECT id,username,email,role,created_at FROM profiles ORDER BY created_at DESC`)
		} else {
			rows, err = db.QueryContext(r.Context(),
				`SELECT id,username,email,role,created_at FROM profiles WHERE role=$1 ORDER BY created_at DESC`, role)
		}
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		defer rows.Close()
		out := []profileRow{}
		for rows.Next() {
			var p profileRow
			var email sql.NullString
			if err := rows.Scan(&p.ID, &p.Username, &email, &p.Role, &p.CreatedAt); err != nil {
				nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
				return
			}
			if email.Valid {
				p.Email = email.String
			}
			out = append(out, p)
		}
		writeJSON(w, out)
	}
}

// PATCH /admin/users/{userID}: toggle a user between student and admin.
func UpdateUserRoleHandler(db *sql.DB) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		target := chi.URLParam(r, "userID")
		if target == "" {
			nethttp.Error(w, "missing userID", nethttp.StatusBadRequest)
			return
		}
		var req struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if role != "student" && role != "admin" {
			nethttp.Error(w, "invalid role", nethttp.StatusBadRequest)
			return
		}

		var id, curRole string
		err := db.QueryRowContext(r.Context(),
			`SELECT id, role FROM profiles WHERE id=$1 OR username=$1`, target).Scan(&id, &curRole)
		if errors.Is(err, sql.ErrNoRows) {
			nethttp.Error(w, "user not found", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		// guard against demoting the last admin
		if curRole == "admin" && role != "admin" {
			var adminCount int
			if err := db.QueryRowContext(r.Context(),
				`SELECT COUNT(1) FROM profiles WHERE role='admin'`).Scan(&adminCount); err != nil {
				nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
				return
			}
			if adminCount <= 1 {
				nethttp.Error(w, "cannot demote the last admin", nethttp.StatusBadRequest)
				return
			}
		}
		if _, err := db.ExecContext(r.Context(),
			`UPDATE profiles SET role=$1 WHERE id=$2`, role, id); err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"id": id, "role": role})
	}
}
