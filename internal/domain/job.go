package domain

import "time"

type JobStatus string

const JobStatusActive JobStatus = "active"

// Job represents a posting in the registry.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary,omitempty"`
	JobType      string    `json:"jobType,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	Skills       string    `json:"skills,omitempty"`
	Description  string    `json:"description,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	PostedBy     string    `json:"postedBy"`
	PostedDate   time.Time `json:"postedDate"`
	Status       JobStatus `json:"status"`
}

// JobInput carries the caller supplied fields of a new posting.
type JobInput struct {
	Title        string `json:"title" form:"title"`
	Company      string `json:"company" form:"company"`
	Location     string `json:"location" form:"location"`
	Salary       string `json:"salary" form:"salary"`
	JobType      string `json:"jobType" form:"jobType"`
	Experience   string `json:"experience" form:"experience"`
	Skills       string `json:"skills" form:"skills"`
	Description  string `json:"description" form:"description"`
	Requirements string `json:"requirements" form:"requirements"`
}
