package memory

import (
	"context"
	"fmt"
	"strings"

	"talent-portal/internal/domain"
	"talent-portal/internal/repository"
)

// AccountRepository holds accounts loaded at startup. It is read-only after
// construction, so no locking is needed.
type AccountRepository struct {
	accounts []domain.Account
}

func NewAccountRepository(accounts ...domain.Account) *AccountRepository {
	copied := make([]domain.Account, len(accounts))
	copy(copied, accounts)
	return &AccountRepository{accounts: copied}
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	for i := range r.accounts {
		if r.accounts[i].Username == username {
			account := r.accounts[i]
			return &account, nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", username, repository.ErrNotFound)
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for i := range r.accounts {
		if strings.EqualFold(r.accounts[i].Email, email) {
			account := r.accounts[i]
			return &account, nil
		}
	}
	return nil, fmt.Errorf("account with email %q: %w", email, repository.ErrNotFound)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
