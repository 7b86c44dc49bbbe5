package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"talent-portal/internal/domain"
	"talent-portal/internal/repository"
)

// SessionRepository is a process-local session table. Entries are keyed by
// token hash; sync.Map keeps unrelated tokens from contending on one lock.
type SessionRepository struct {
	sessions sync.Map
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) Put(_ context.Context, tokenHash string, session domain.Session) error {
	r.sessions.Store(tokenHash, session)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, tokenHash string) (*domain.Session, error) {
	v, ok := r.sessions.Load(tokenHash)
	if !ok {
		return nil, fmt.Errorf("session: %w", repository.ErrNotFound)
	}
	session := v.(domain.Session)
	return &session, nil
}

func (r *SessionRepository) Delete(_ context.Context, tokenHash string) error {
	r.sessions.Delete(tokenHash)
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	removed := 0
	r.sessions.Range(func(key, value any) bool {
		if value.(domain.Session).Expired(now) {
			// CompareAndDelete leaves a session alone if it was replaced meanwhile.
			if r.sessions.CompareAndDelete(key, value) {
				removed++
			}
		}
		return true
	})
	return removed, nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
