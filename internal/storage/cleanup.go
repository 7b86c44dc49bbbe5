package storage

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"talent-portal/internal/metrics"
)

const DefaultCleanupDelay = time.Minute

type CleanupConfig struct {
	Delay   time.Duration
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	// Remove deletes a staged file; os.Remove when nil.
	Remove func(path string) error
}

type cleanupScheduler struct {
	cfg CleanupConfig

	mu      sync.Mutex
	wg      sync.WaitGroup
	nextID  uint64
	pending map[uint64]pendingRemoval
	closed  bool
}

type pendingRemoval struct {
	path  string
	timer *time.Timer
}

// NewCleanupScheduler returns a scheduler whose deletions run on their own
// timers, independent of the request that scheduled them.
func NewCleanupScheduler(cfg CleanupConfig) CleanupScheduler {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultCleanupDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Remove == nil {
		cfg.Remove = os.Remove
	}
	return &cleanupScheduler{
		cfg:     cfg,
		pending: make(map[uint64]pendingRemoval),
	}
}

func (s *cleanupScheduler) Schedule(path string) {
	if path == "" {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.remove(path)
		return
	}
	id := s.nextID
	s.nextID++
	s.wg.Add(1)
	// fire blocks on mu until the entry below is recorded.
	timer := time.AfterFunc(s.cfg.Delay, func() { s.fire(id) })
	s.pending[id] = pendingRemoval{path: path, timer: timer}
	s.mu.Unlock()

	s.cfg.Logger.WithFields(logrus.Fields{
		"path":  path,
		"delay": s.cfg.Delay.String(),
	}).Debug("staged file cleanup scheduled")
}

// Pending reports deletions whose timers have not fired yet.
func (s *cleanupScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Shutdown runs every pending deletion now and waits for in-flight ones.
func (s *cleanupScheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	var flush []string
	for id, p := range s.pending {
		if p.timer.Stop() {
			delete(s.pending, id)
			flush = append(flush, p.path)
			s.wg.Done()
		}
	}
	s.mu.Unlock()

	for _, path := range flush {
		s.remove(path)
	}
	s.wg.Wait()
	s.cfg.Logger.Infof("cleanup scheduler stopped, flushed %d pending files", len(flush))
}

func (s *cleanupScheduler) fire(id uint64) {
	defer s.wg.Done()

	s.mu.Lock()
	p, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.remove(p.path)
}

func (s *cleanupScheduler) remove(path string) {
	err := s.cfg.Remove(path)
	switch {
	case err == nil:
		s.cfg.Metrics.Cleanup("removed")
	case errors.Is(err, fs.ErrNotExist):
		s.cfg.Metrics.Cleanup("missing")
	default:
		s.cfg.Metrics.Cleanup("failed")
		s.cfg.Logger.WithError(err).WithField("path", path).Error("delete staged file")
	}
}
