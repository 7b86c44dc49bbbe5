package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"talent-portal/internal/domain"
	"talent-portal/internal/metrics"
	"talent-portal/internal/repository"
)

// JobService coordinates the job registry.
type JobService interface {
	List(ctx context.Context) ([]domain.Job, error)
	Create(ctx context.Context, session *domain.Session, input domain.JobInput) (*domain.Job, error)
}

type JobConfig struct {
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

type jobService struct {
	jobs    repository.JobRepository
	logger  *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewJobService(jobs repository.JobRepository, cfg JobConfig) JobService {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &jobService{
		jobs:    jobs,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     cfg.Now,
	}
}

func (s *jobService) List(ctx context.Context) ([]domain.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.ErrInternal, err)
	}
	return jobs, nil
}

func (s *jobService) Create(ctx context.Context, session *domain.Session, input domain.JobInput) (*domain.Job, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}

	input = trimJobInput(input)
	required := []struct {
		name  string
		value string
	}{
		{"title", input.Title},
		{"company", input.Company},
		{"location", input.Location},
		{"description", input.Description},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, domain.MissingField(field.name)
		}
	}

	job := &domain.Job{
		Title:        input.Title,
		Company:      input.Company,
		Location:     input.Location,
		Salary:       input.Salary,
		JobType:      input.JobType,
		Experience:   input.Experience,
		Skills:       input.Skills,
		Description:  input.Description,
		Requirements: input.Requirements,
		PostedBy:     session.User.Username,
		PostedDate:   s.now().UTC(),
		Status:       domain.JobStatusActive,
	}
	if err := s.jobs.Append(ctx, job); err != nil {
		return nil, domain.Wrap(domain.ErrInternal, fmt.Errorf("append job: %w", err))
	}

	s.metrics.JobPosted()
	s.logger.WithFields(logrus.Fields{
		"job_id":    job.ID,
		"title":     job.Title,
		"posted_by": job.PostedBy,
	}).Info("job posted")
	return job, nil
}

func trimJobInput(in domain.JobInput) domain.JobInput {
	return domain.JobInput{
		Title:        strings.TrimSpace(in.Title),
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Salary:       strings.TrimSpace(in.Salary),
		JobType:      strings.TrimSpace(in.JobType),
		Experience:   strings.TrimSpace(in.Experience),
		Skills:       strings.TrimSpace(in.Skills),
		Description:  strings.TrimSpace(in.Description),
		Requirements: strings.TrimSpace(in.Requirements),
	}
}

// DefaultJobs are the listings the registry starts with.
func DefaultJobs(now time.Time) []domain.Job {
	posted := now.UTC()
	seed := []domain.Job{
		{ID: 1, Title: "Chief Technology Officer", Company: "FinTech Innovations", Location: "New York, NY", Salary: "$250k - $350k", PostedBy: "admin"},
		{ID: 2, Title: "VP of Engineering", Company: "HealthTech Solutions", Location: "San Francisco, CA", Salary: "$200k - $280k", PostedBy: "admin"},
		{ID: 3, Title: "Senior Software Engineer", Company: "TechCorp Inc.", Location: "San Francisco, CA", Salary: "$120k - $160k", PostedBy: "hr"},
		{ID: 4, Title: "Marketing Director", Company: "Growth Solutions", Location: "New York, NY", Salary: "$100k - $140k", PostedBy: "hr"},
		{ID: 5, Title: "Financial Analyst", Company: "InvestPro", Location: "Chicago, IL", Salary: "$80k - $110k", PostedBy: "admin"},
	}
	for i := range seed {
		seed[i].PostedDate = posted
		seed[i].Status = domain.JobStatusActive
	}
	return seed
}
