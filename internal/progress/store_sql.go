package progress

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLessonNotFound = errors.New("lesson not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// MarkLessonComplete records a completion as a single atomic upsert keyed on
// (user_id, lesson_id). Repeated calls update the existing row instead of
// appending, so a double-click cannot produce two rows.
func (s *SQLStore) MarkLessonComplete(ctx context.Context, userID, lessonID string) (UserProgress, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM lessons WHERE id=$1`, lessonID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return UserProgress{}, ErrLessonNotFound
	}
	if err != nil {
		return UserProgress{}, err
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_progress (id,user_id,lesson_id,completed,completed_at,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (user_id,lesson_id)
		 DO UPDATE SET completed=excluded.completed, completed_at=excluded.completed_at`,
		uuid.NewString(), userID, lessonID, true, now, now)
	if err != nil {
		return UserProgress{}, err
	}
	return s.GetLessonProgress(ctx, userID, lessonID)
}

func (s *SQLStore) GetLessonProgress(ctx context.Context, userID, lessonID string) (UserProgress, error) {
	var p UserProgress
	var completedAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,lesson_id,completed,completed_at,created_at
		   FROM user_progress WHERE user_id=$1 AND lesson_id=$2`, userID, lessonID).
		Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &completedAt, &p.CreatedAt)
	if err != nil {
		return UserProgress{}, err
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Int64
	}
	return p, nil
}

func (s *SQLStore) ListUserProgress(ctx context.Context, userID string) ([]UserProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,lesson_id,completed,completed_at,created_at
		   FROM user_progress WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []UserProgress{}
	for rows.Next() {
		var p UserProgress
		var completedAt sql.NullInt64
		if err := rows.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &completedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			p.CompletedAt = &completedAt.Int64
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProgressStats aggregates raw progress and attempt rows into Stats. A
// userID with no rows (or one that does not exist at all) yields zero counts
// rather than an error; persistence failures propagate.
func (s *SQLStore) GetProgressStats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lessons`).Scan(&st.TotalLessons); err != nil {
		return Stats{}, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM user_progress WHERE user_id=$1 AND completed=$2`,
		userID, true).Scan(&st.CompletedLessons); err != nil {
		return Stats{}, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM quizzes`).Scan(&st.TotalQuizzes); err != nil {
		return Stats{}, err
	}
	// Distinct quiz ids: a quiz passed on three attempts still counts once.
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT quiz_id) FROM quiz_attempts WHERE user_id=$1 AND passed=$2`,
		userID, true).Scan(&st.PassedQuizzes); err != nil {
		return Stats{}, err
	}
	st.OverallProgress = OverallPercent(st.CompletedLessons, st.PassedQuizzes, st.TotalLessons, st.TotalQuizzes)
	return st, nil
}
