package handler

import (
	"time"

	"resgate/internal/accounts/models"
	"resgate/internal/accounts/service"
)

// UserResponse is the public view of an account. Credentials never leave
// the service layer.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	OrgID     string    `json:"org_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromUser builds the response view of a user.
func FromUser(u *models.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
	if !u.OrgID.IsZero() {
		resp.OrgID = u.OrgID.String()
	}
	return resp
}

// FromUsers never returns nil so the JSON listing is [] rather than null.
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// SessionResponse is the login result.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id,omitempty"`
	OrgID     string    `json:"org_id,omitempty"`
}

// FromLogin builds the response view of a login result.
func FromLogin(result *service.LoginResult) SessionResponse {
	resp := SessionResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Role:      result.Role,
		Name:      result.Name,
	}
	if !result.UserID.IsZero() {
		resp.UserID = result.UserID.String()
	}
	if !result.OrgID.IsZero() {
		resp.OrgID = result.OrgID.String()
	}
	return resp
}
