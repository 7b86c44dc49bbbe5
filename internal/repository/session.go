package repository

import (
	"context"
	"errors"
	"time"

	"talent-portal/internal/domain"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// SessionRepository keys sessions by the hash of their token.
type SessionRepository interface {
	Put(ctx context.Context, tokenHash string, session domain.Session) error
	Get(ctx context.Context, tokenHash string) (*domain.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
