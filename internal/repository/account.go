package repository

import (
	"context"

	"talent-portal/internal/domain"
)

// AccountRepository exposes the fixed set of staff accounts.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}
