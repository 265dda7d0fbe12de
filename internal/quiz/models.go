package quiz

// Attempt is one graded submission. Attempts are append-only: retakes create
// new rows and prior rows are never mutated.
type Attempt struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	QuizID    string         `json:"quiz_id"`
	Score     int            `json:"score"` // percent 0-100
	Passed    bool           `json:"passed"`
	Answers   map[string]int `json:"answers"` // question id -> chosen option index
	CreatedAt int64          `json:"created_at"`
}

// Result is the outcome returned to the caller on submission.
type Result struct {
	Score  int  `json:"score"`
	Passed bool `json:"passed"`
}
