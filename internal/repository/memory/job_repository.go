package memory

import (
	"context"
	"sync"

	"talent-portal/internal/domain"
	"talent-portal/internal/repository"
)

// JobRepository keeps postings in insertion order. A single mutex serializes
// identifier assignment and the append so no two callers see the same id.
type JobRepository struct {
	mu     sync.Mutex
	nextID int64
	jobs   []domain.Job
}

// NewJobRepository returns a repository preloaded with seed. Seed postings keep
// their identifiers and the counter resumes after the highest one.
func NewJobRepository(seed ...domain.Job) *JobRepository {
	r := &JobRepository{
		nextID: 1,
		jobs:   make([]domain.Job, 0, len(seed)),
	}
	for _, job := range seed {
		r.jobs = append(r.jobs, job)
		if job.ID >= r.nextID {
			r.nextID = job.ID + 1
		}
	}
	return r
}

func (r *JobRepository) Append(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job.ID = r.nextID
	r.nextID++
	r.jobs = append(r.jobs, *job)
	return nil
}

func (r *JobRepository) List(_ context.Context) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Job, len(r.jobs))
	copy(out, r.jobs)
	return out, nil
}

var _ repository.JobRepository = (*JobRepository)(nil)
