package models

import "time"

type Job struct {
	ID          string    `json:"id"`
	EmployerID  string    `json:"employer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	WorkerType  string    `json:"worker_type"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	WorkerID  string    `json:"worker_id"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedJob is a job annotated with the score and match indicators the
// worker feed is sorted by.
type RankedJob struct {
	Job           Job      `json:"job"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	LocationMatch string   `json:"location_match,omitempty"`
}
