package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"talent-portal/internal/auth"
	"talent-portal/internal/domain"
	"talent-portal/internal/metrics"
	"talent-portal/internal/repository"
)

// DefaultSessionTTL is how long a session lives after login.
const DefaultSessionTTL = 24 * time.Hour

// AuthService describes the staff session lifecycle.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*domain.Session, string, error)
	Validate(ctx context.Context, token string) (*domain.Session, bool)
	Destroy(ctx context.Context, token string) error
	RequireSession(ctx context.Context, token string) (*domain.Session, error)
	SweepExpired(ctx context.Context) (int, error)
}

type AuthConfig struct {
	TTL        time.Duration
	BcryptCost int
	Logger     *logrus.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

type authService struct {
	accounts  repository.AccountRepository
	sessions  repository.SessionRepository
	ttl       time.Duration
	dummyHash string
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewAuthService(accounts repository.AccountRepository, sessions repository.SessionRepository, cfg AuthConfig) (AuthService, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	// Unknown identifiers are still checked against this hash.
	dummy, err := auth.HashPassword("not-a-real-password", cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &authService{
		accounts:  accounts,
		sessions:  sessions,
		ttl:       cfg.TTL,
		dummyHash: dummy,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       cfg.Now,
	}, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.Session, string, error) {
	identifier = strings.TrimSpace(identifier)

	account, err := s.lookup(ctx, identifier)
	if err != nil {
		return nil, "", err
	}

	hash := s.dummyHash
	if account != nil {
		hash = account.PasswordHash
	}
	if err := auth.CheckPassword(hash, password); err != nil || account == nil || password == "" {
		s.metrics.LoginAttempt("failure")
		s.logger.WithField("identifier", identifier).Warn("login rejected")
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, "", domain.Wrap(domain.ErrInternal, err)
	}
	now := s.now().UTC()
	session := domain.Session{
		User:      account.SessionUser(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Put(ctx, auth.HashToken(token), session); err != nil {
		return nil, "", domain.Wrap(domain.ErrInternal, fmt.Errorf("store session: %w", err))
	}

	s.metrics.LoginAttempt("success")
	s.logger.WithFields(logrus.Fields{
		"username": account.Username,
		"role":     account.Role,
	}).Info("login succeeded")
	return &session, token, nil
}

// lookup finds an account by username, then by email. A nil account with a
// nil error means nothing matched.
func (s *authService) lookup(ctx context.Context, identifier string) (*domain.Account, error) {
	if identifier == "" {
		return nil, nil
	}
	account, err := s.accounts.GetByUsername(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Wrap(domain.ErrInternal, err)
	}
	account, err = s.accounts.GetByEmail(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Wrap(domain.ErrInternal, err)
	}
	return nil, nil
}

func (s *authService) Validate(ctx context.Context, token string) (*domain.Session, bool) {
	if token == "" {
		return nil, false
	}
	key := auth.HashToken(token)
	session, err := s.sessions.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.WithError(err).Error("session lookup failed")
		}
		return nil, false
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, key)
		return nil, false
	}
	return session, true
}

func (s *authService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, auth.HashToken(token))
}

func (s *authService) RequireSession(ctx context.Context, token string) (*domain.Session, error) {
	session, ok := s.Validate(ctx, token)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

func (s *authService) SweepExpired(ctx context.Context) (int, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// RunSessionSweeper removes expired sessions every interval until ctx is done.
func RunSessionSweeper(ctx context.Context, svc AuthService, interval time.Duration, logger *logrus.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.SweepExpired(ctx)
			if err != nil {
				logger.WithError(err).Error("session sweep failed")
				continue
			}
			if removed > 0 {
				logger.WithField("removed", removed).Debug("expired sessions swept")
			}
		}
	}
}

// DefaultAccounts returns the two staff accounts with freshly hashed passwords.
func DefaultAccounts(adminPassword, hrPassword string, cost int) ([]domain.Account, error) {
	adminHash, err := auth.HashPassword(adminPassword, cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	hrHash, err := auth.HashPassword(hrPassword, cost)
	if err != nil {
		return nil, fmt.Errorf("hash hr password: %w", err)
	}
	return []domain.Account{
		{
			ID:           1,
			Username:     "admin",
			Email:        "admin@ittalentsolution.com",
			PasswordHash: adminHash,
			Role:         domain.RoleAdmin,
		},
		{
			ID:           2,
			Username:     "hr",
			Email:        "hr@ittalentsolution.com",
			PasswordHash: hrHash,
			Role:         domain.RoleHR,
		},
	}, nil
}
