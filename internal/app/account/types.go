package account

import (
	"time"

	"xbet/internal/store"
)

type RegisterInput struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	FullName        string `json:"full_name"`
	Age             int    `json:"age"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	AcceptTerms     bool   `json:"accept_terms"`
}

type RegisterResponse struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
}

type LoginResponse struct {
	AccountID int64     `json:"account_id"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MeResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"full_name"`
	Age       int       `json:"age"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toMe(a *store.Account) *MeResponse {
	return &MeResponse{
		ID:        a.ID,
		Email:     a.Email,
		Phone:     a.Phone,
		FullName:  a.FullName,
		Age:       a.Age,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}
