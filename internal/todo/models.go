package todo

import "time"

// Task is one to-do record. AIPriority is nil until a score is assigned.
type Task struct {
	ID         int        `json:"id"`
	UserID     int        `json:"-"`
	Text       string     `json:"task"`
	DueDate    *time.Time `json:"date,omitempty"`
	Completed  bool       `json:"completed"`
	AIPriority *int       `json:"aiPriority,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
