package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"talent-portal/internal/domain"
	"talent-portal/internal/repository/memory"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestAuthService(t *testing.T) (AuthService, *memory.SessionRepository, *fakeClock) {
	t.Helper()
	accounts, err := DefaultAccounts("admin123", "hr123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("seed accounts: %v", err)
	}
	sessions := memory.NewSessionRepository()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc, err := NewAuthService(memory.NewAccountRepository(accounts...), sessions, AuthConfig{
		TTL:        time.Hour,
		BcryptCost: bcrypt.MinCost,
		Logger:     quietLogger(),
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc, sessions, clock
}

func TestLoginValidateDestroy(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	session, token, err := svc.Login(ctx, "hr", "hr123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
	if session.User.Username != "hr" || session.User.Role != domain.RoleHR {
		t.Fatalf("unexpected session user %+v", session.User)
	}

	got, ok := svc.Validate(ctx, token)
	if !ok || got.User.Email != "hr@ittalentsolution.com" {
		t.Fatalf("expected valid session, got %+v ok=%v", got, ok)
	}

	if err := svc.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, ok := svc.Validate(ctx, token); ok {
		t.Fatalf("expected session to be gone after destroy")
	}
	if err := svc.Destroy(ctx, token); err != nil {
		t.Fatalf("second destroy should be a no-op, got %v", err)
	}
}

func TestLoginByEmailIgnoresCase(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	session, _, err := svc.Login(context.Background(), "Admin@ITTalentSolution.com", "admin123")
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if session.User.Username != "admin" || session.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session user %+v", session.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, sessions, clock := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "ghost", "admin123"},
		{"empty identifier", "", "admin123"},
		{"empty password", "admin", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, token, err := svc.Login(ctx, tc.identifier, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
			if session != nil || token != "" {
				t.Fatalf("expected no session on failure")
			}
		})
	}

	removed, err := sessions.DeleteExpired(ctx, clock.now.Add(365*24*time.Hour))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected no sessions to have been created, found %d", removed)
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	svc, _, clock := newTestAuthService(t)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock.now = clock.now.Add(59 * time.Minute)
	if _, err := svc.RequireSession(ctx, token); err != nil {
		t.Fatalf("expected session before ttl, got %v", err)
	}

	clock.now = clock.now.Add(time.Minute)
	if _, err := svc.RequireSession(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated at ttl, got %v", err)
	}
}

func TestRequireSessionRejectsUnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for _, token := range []string{"", "not-a-token"} {
		if _, err := svc.RequireSession(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected unauthenticated for %q, got %v", token, err)
		}
	}
}

func TestSweepExpired(t *testing.T) {
	svc, _, clock := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login admin: %v", err)
	}
	clock.now = clock.now.Add(30 * time.Minute)
	_, hrToken, err := svc.Login(ctx, "hr", "hr123")
	if err != nil {
		t.Fatalf("login hr: %v", err)
	}

	clock.now = clock.now.Add(45 * time.Minute)
	removed, err := svc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}
	if _, ok := svc.Validate(ctx, hrToken); !ok {
		t.Fatalf("expected the younger session to survive")
	}
}

func TestRunSessionSweeperStopsWithContext(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		RunSessionSweeper(ctx, svc, 5*time.Millisecond, quietLogger())
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}
