package dto

import "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"

type UserOutput struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{ID: u.ID, Username: u.Username}
}
