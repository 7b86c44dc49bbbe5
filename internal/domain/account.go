package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleHR    Role = "hr"
)

// Account represents a staff member allowed to sign in.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}

// SessionUser is the identity exposed to clients once authenticated.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Session binds an authenticated identity to an opaque token.
type Session struct {
	User      SessionUser
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (a Account) SessionUser() SessionUser {
	return SessionUser{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}
