package repository

import (
	"context"

	"talent-portal/internal/domain"
)

// JobRepository is an append-only store of job postings.
type JobRepository interface {
	// Append assigns the next identifier to job and stores it.
	Append(ctx context.Context, job *domain.Job) error
	List(ctx context.Context) ([]domain.Job, error)
}
