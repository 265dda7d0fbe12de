package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// ---------- courses ----------

func (s *SQLStore) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,COALESCE(description,''),level,order_index,created_at
		   FROM courses ORDER BY order_index, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Level, &c.OrderIndex, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetCourse(ctx context.Context, id string) (Course, error) {
	var c Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id,title,COALESCE(description,''),level,order_index,created_at
		   FROM courses WHERE id=$1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.Level, &c.OrderIndex, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	return c, err
}

func (s *SQLStore) GetCourseWithModules(ctx context.Context, id string) (CourseWithModules, error) {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return CourseWithModules{}, err
	}
	mods, err := s.ModulesByCourse(ctx, id)
	if err != nil {
		return CourseWithModules{}, err
	}
	return CourseWithModules{Course: c, Modules: mods}, nil
}

func (s *SQLStore) CreateCourse(ctx context.Context, c Course) (Course, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id,title,description,level,order_index,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Title, c.Description, c.Level, c.OrderIndex, c.CreatedAt)
	return c, err
}

func (s *SQLStore) UpdateCourse(ctx context.Context, c Course) (Course, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET title=$1, description=$2, level=$3, order_index=$4 WHERE id=$5`,
		c.Title, c.Description, c.Level, c.OrderIndex, c.ID)
	if err != nil {
		return Course{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Course{}, ErrNotFound
	}
	return s.GetCourse(ctx, c.ID)
}

func (s *SQLStore) DeleteCourse(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	return err
}

// ---------- modules ----------

func (s *SQLStore) ModulesByCourse(ctx context.Context, courseID string) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,COALESCE(description,''),order_index,created_at
		   FROM modules WHERE course_id=$1 ORDER BY order_index, created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Module{}
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetModule(ctx context.Context, id string) (Module, error) {
	var m Module
	err := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,COALESCE(description,''),order_index,created_at
		   FROM modules WHERE id=$1`, id).
		Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.OrderIndex, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Module{}, ErrNotFound
	}
	return m, err
}

func (s *SQLStore) GetModuleWithDetails(ctx context.Context, id string) (ModuleWithDetails, error) {
	m, err := s.GetModule(ctx, id)
	if err != nil {
		return ModuleWithDetails{}, err
	}
	lessons, err := s.LessonsByModule(ctx, id)
	if err != nil {
		return ModuleWithDetails{}, err
	}
	out := ModuleWithDetails{Module: m, Lessons: lessons}
	q, err := s.QuizByModule(ctx, id)
	switch {
	case err == nil:
		out.Quiz = &q
	case errors.Is(err, ErrNotFound):
		// module has no quiz
	default:
		return ModuleWithDetails{}, err
	}
	return out, nil
}

func (s *SQLStore) CreateModule(ctx context.Context, m Module) (Module, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO modules (id,course_id,title,description,order_index,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.CourseID, m.Title, m.Description, m.OrderIndex, m.CreatedAt)
	return m, err
}

func (s *SQLStore) UpdateModule(ctx context.Context, m Module) (Module, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE modules SET title=$1, description=$2, order_index=$3 WHERE id=$4`,
		m.Title, m.Description, m.OrderIndex, m.ID)
	if err != nil {
		return Module{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Module{}, ErrNotFound
	}
	return s.GetModule(ctx, m.ID)
}

func (s *SQLStore) DeleteModule(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id=$1`, id)
	return err
}

// ---------- lessons ----------

func (s *SQLStore) LessonsByModule(ctx context.Context, moduleID string) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,module_id,title,content,COALESCE(video_url,''),order_index,created_at
		   FROM lessons WHERE module_id=$1 ORDER BY order_index, created_at`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Lesson{}
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.VideoURL, &l.OrderIndex, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetLesson(ctx context.Context, id string) (Lesson, error) {
	var l Lesson
	err := s.db.QueryRowContext(ctx,
		`SELECT id,module_id,title,content,COALESCE(video_url,''),order_index,created_at
		   FROM lessons WHERE id=$1`, id).
		Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.VideoURL, &l.OrderIndex, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Lesson{}, ErrNotFound
	}
	return l, err
}

func (s *SQLStore) CreateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lessons (id,module_id,title,content,video_url,order_index,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.ModuleID, l.Title, l.Content, l.VideoURL, l.OrderIndex, l.CreatedAt)
	return l, err
}

func (s *SQLStore) UpdateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET title=$1, content=$2, video_url=$3, order_index=$4 WHERE id=$5`,
		l.Title, l.Content, l.VideoURL, l.OrderIndex, l.ID)
	if err != nil {
		return Lesson{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Lesson{}, ErrNotFound
	}
	return s.GetLesson(ctx, l.ID)
}

func (s *SQLStore) DeleteLesson(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	return err
}

// ---------- quizzes ----------

func (s *SQLStore) QuizByModule(ctx context.Context, moduleID string) (Quiz, error) {
	var q Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id,module_id,title,passing_score,created_at FROM quizzes WHERE module_id=$1`, moduleID).
		Scan(&q.ID, &q.ModuleID, &q.Title, &q.PassingScore, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	return q, err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	var q Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id,module_id,title,passing_score,created_at FROM quizzes WHERE id=$1`, id).
		Scan(&q.ID, &q.ModuleID, &q.Title, &q.PassingScore, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quiz{}, ErrNotFound
	}
	return q, err
}

func (s *SQLStore) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,module_id,title,passing_score,created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		q.ID, q.ModuleID, q.Title, q.PassingScore, q.CreatedAt)
	return q, err
}

func (s *SQLStore) UpdateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET title=$1, passing_score=$2 WHERE id=$3`,
		q.Title, q.PassingScore, q.ID)
	if err != nil {
		return Quiz{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Quiz{}, ErrNotFound
	}
	return s.GetQuiz(ctx, q.ID)
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	return err
}

// ---------- quiz questions ----------

func (s *SQLStore) QuestionsByQuiz(ctx context.Context, quizID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,quiz_id,question,options_json,correct_answer,order_index,created_at
		   FROM quiz_questions WHERE quiz_id=$1 ORDER BY order_index, created_at`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,quiz_id,question,options_json,correct_answer,order_index,created_at
		   FROM quiz_questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return q, err
}

func (s *SQLStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
		return Question{}, errors.New("correct_answer must index into options")
	}
	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().Unix()
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_questions (id,quiz_id,question,options_json,correct_answer,order_index,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		q.ID, q.QuizID, q.Question, string(oj), *q.CorrectAnswer, q.OrderIndex, q.CreatedAt)
	return q, err
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, q Question) (Question, error) {
	if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
		return Question{}, errors.New("correct_answer must index into options")
	}
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return Question{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE quiz_questions SET question=$1, options_json=$2, correct_answer=$3, order_index=$4 WHERE id=$5`,
		q.Question, string(oj), *q.CorrectAnswer, q.OrderIndex, q.ID)
	if err != nil {
		return Question{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Question{}, ErrNotFound
	}
	return s.GetQuestion(ctx, q.ID)
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quiz_questions WHERE id=$1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(r rowScanner) (Question, error) {
	var q Question
	var oj string
	var correct int
	if err := r.Scan(&q.ID, &q.QuizID, &q.Question, &oj, &correct, &q.OrderIndex, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
		return Question{}, err
	}
	q.CorrectAnswer = &correct
	return q, nil
}

// StripAnswerKeys clears correct_answer before a question set is served to a
// student. The input slice is not modified.
func StripAnswerKeys(qs []Question) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	for i := range out {
		out[i].CorrectAnswer = nil
	}
	return out
}
