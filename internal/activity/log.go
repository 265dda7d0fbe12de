package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"
)

const (
	TypeLessonCompleted   = "LessonCompleted"
	TypeQuizSubmitted     = "QuizSubmitted"
	TypeCertificateIssued = "CertificateIssued"
)

type Event struct {
	Offset    int64  `json:"offset"`
	UserID    string `json:"user_id"`
	Type      string `json:"typ"`
	Key       string `json:"key"` // lesson/quiz/certificate id
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

func (l *Log) Append(ctx context.Context, e Event) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO activity_log (user_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.UserID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Record marshals data and appends, logging instead of failing: activity is
// best-effort and must never reject the user action it describes.
func (l *Log) Record(ctx context.Context, userID, typ, key string, data any) {
	buf, err := json.Marshal(data)
	if err != nil {
		buf = []byte("{}")
	}
	if err := l.Append(ctx, Event{UserID: userID, Type: typ, Key: key, DataJSON: string(buf)}); err != nil {
		log.Printf("activity append failed (typ=%s key=%s): %v", typ, key, err)
	}
}

func (l *Log) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT "offset", user_id, typ, key, data, created_at
		   FROM activity_log ORDER BY "offset" DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.UserID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
