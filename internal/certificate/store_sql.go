package certificate

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Insert(ctx context.Context, c Certificate) (Certificate, error) {
	c.ID = uuid.NewString()
	c.IssuedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO certificates (id,user_id,certificate_number,issued_at)
		 VALUES ($1,$2,$3,$4)`,
		c.ID, c.UserID, c.CertificateNumber, c.IssuedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, "user_id"):
			return Certificate{}, ErrAlreadyIssued
		case isUniqueViolation(err, "certificate_number"):
			return Certificate{}, ErrNumberTaken
		}
		return Certificate{}, err
	}
	return c, nil
}

func (s *SQLStore) GetByUser(ctx context.Context, userID string) (Certificate, error) {
	var c Certificate
	err := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,certificate_number,issued_at FROM certificates WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.UserID, &c.CertificateNumber, &c.IssuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Certificate{}, ErrNotFound
	}
	return c, err
}

func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate key") {
		return false
	}
	return strings.Contains(msg, column)
}
