package dto

import "time"

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput is returned by both login and refresh.
type LoginOutput struct {
	User             UserOutput
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type LoginResponse struct {
	Success     bool       `json:"success"`
	User        UserOutput `json:"user"`
	AccessToken string     `json:"accessToken"`
	ExpiresAt   int64      `json:"expiresAt"`
}
