package progress

import "math"

// UserProgress is one lesson-completion record. At most one row exists per
// (user, lesson) pair; completions are upserts, never duplicate inserts.
type UserProgress struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	LessonID    string `json:"lesson_id"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// Stats is the aggregate progress view for one user, measured against the
// whole catalog: every lesson and every quiz on the platform counts toward
// the denominator.
type Stats struct {
	TotalLessons     int `json:"totalLessons"`
	CompletedLessons int `json:"completedLessons"`
	TotalQuizzes     int `json:"totalQuizzes"`
	PassedQuizzes    int `json:"passedQuizzes"`
	OverallProgress  int `json:"overallProgress"`
}

// OverallPercent computes round(100 * (completed+passed) / (lessons+quizzes)).
// A zero denominator yields 0, not a division error.
func OverallPercent(completedLessons, passedQuizzes, totalLessons, totalQuizzes int) int {
	total := totalLessons + totalQuizzes
	if total == 0 {
		return 0
	}
	done := completedLessons + passedQuizzes
	return int(math.Round(float64(done) / float64(total) * 100))
}
