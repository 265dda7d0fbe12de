package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoAttempts = errors.New("no attempts")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	if a.Answers == nil {
		a.Answers = map[string]int{}
	}
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return Attempt{}, err
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id,user_id,quiz_id,score,passed,answers_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.UserID, a.QuizID, a.Score, a.Passed, string(aj), a.CreatedAt)
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) ListUserAttempts(ctx context.Context, userID string) ([]Attempt, error) {
	return s.listAttempts(ctx,
		`SELECT id,user_id,quiz_id,score,passed,answers_json,created_at
		   FROM quiz_attempts WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (s *SQLStore) ListQuizAttempts(ctx context.Context, userID, quizID string) ([]Attempt, error) {
	return s.listAttempts(ctx,
		`SELECT id,user_id,quiz_id,score,passed,answers_json,created_at
		   FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2 ORDER BY created_at DESC`, userID, quizID)
}

// HasAttempt reports whether the user has submitted this quiz at least once.
func (s *SQLStore) HasAttempt(ctx context.Context, userID, quizID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2 LIMIT 1`, userID, quizID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// BestAttempt returns the highest-scoring attempt, most recent first on ties.
func (s *SQLStore) BestAttempt(ctx context.Context, userID, quizID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,quiz_id,score,passed,answers_json,created_at
		   FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2
		  ORDER BY score DESC, created_at DESC LIMIT 1`, userID, quizID)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNoAttempts
	}
	return a, err
}

func (s *SQLStore) listAttempts(ctx context.Context, query string, args ...any) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(r rowScanner) (Attempt, error) {
	var a Attempt
	var aj string
	if err := r.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.Passed, &aj, &a.CreatedAt); err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(aj), &a.Answers); err != nil {
		a.Answers = map[string]int{}
	}
	return a, nil
}
