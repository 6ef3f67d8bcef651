package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is the persisted half of a session. A row exists only while
// the token is still usable: rotation, logout and the sweeper delete it.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPayload is what both token kinds carry about the user.
type TokenPayload struct {
	UserID   string
	Username string
}
