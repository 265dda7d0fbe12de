package catalog

// Authored content: the leveled Excel curriculum. Courses own modules,
// modules own lessons and at most one quiz.

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Level       int    `json:"level"` // 1=Beginner, 2=Intermediate, 3=Advanced
	OrderIndex  int    `json:"order_index"`
	CreatedAt   int64  `json:"created_at"`
}

type Module struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OrderIndex  int    `json:"order_index"`
	CreatedAt   int64  `json:"created_at"`
}

type Lesson struct {
	ID         string `json:"id"`
	ModuleID   string `json:"module_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	VideoURL   string `json:"video_url,omitempty"`
	OrderIndex int    `json:"order_index"`
	CreatedAt  int64  `json:"created_at"`
}

type Quiz struct {
	ID           string `json:"id"`
	ModuleID     string `json:"module_id"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score"` // percent, inclusive pass boundary
	CreatedAt    int64  `json:"created_at"`
}

type Question struct {
	ID       string   `json:"id"`
	QuizID   string   `json:"quiz_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	// CorrectAnswer indexes into Options. Nil when the answer key has been
	// stripped for student-facing payloads.
	CorrectAnswer *int  `json:"correct_answer,omitempty"`
	OrderIndex    int   `json:"order_index"`
	CreatedAt     int64 `json:"created_at"`
}

type ModuleWithDetails struct {
	Module
	Lessons []Lesson `json:"lessons"`
	Quiz    *Quiz    `json:"quiz,omitempty"`
}

type CourseWithModules struct {
	Course
	Modules []Module `json:"modules"`
}
