// Package metrics exposes the portal's prometheus counters. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "talent"

type Metrics struct {
	loginAttempts *prometheus.CounterVec
	jobsPosted    prometheus.Counter
	applications  *prometheus.CounterVec
	cleanups      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Staff login attempts by result.",
		}, []string{"result"}),
		jobsPosted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_posted_total",
			Help:      "Job postings accepted into the registry.",
		}),
		applications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_total",
			Help:      "Application intakes by terminal outcome.",
		}, []string{"outcome"}),
		cleanups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_cleanups_total",
			Help:      "Staged resume deletions by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) JobPosted() {
	if m == nil {
		return
	}
	m.jobsPosted.Inc()
}

func (m *Metrics) Application(outcome string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Cleanup(result string) {
	if m == nil {
		return
	}
	m.cleanups.WithLabelValues(result).Inc()
}

// Collectors, exposed for assertions in tests.
func (m *Metrics) ApplicationsCounter() *prometheus.CounterVec { return m.applications }
func (m *Metrics) CleanupsCounter() *prometheus.CounterVec     { return m.cleanups }
func (m *Metrics) LoginCounter() *prometheus.CounterVec        { return m.loginAttempts }
func (m *Metrics) JobsCounter() prometheus.Counter             { return m.jobsPosted }
