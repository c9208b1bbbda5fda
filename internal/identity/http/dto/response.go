package dto

import (
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its response representation.
// The password hash never leaves the service.
func NewUserResponse(user *identityDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// IssueTokenResponse carries the plain bearer token, shown exactly once.
type IssueTokenResponse struct {
	Token string `json:"token"`
}
