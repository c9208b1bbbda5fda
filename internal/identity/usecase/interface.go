// Package usecase implements identity business logic: registration,
// credential verification, and bearer-token authentication.
package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *identityDomain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*identityDomain.User, error)
}

// TokenRepository defines token persistence operations.
type TokenRepository interface {
	Create(ctx context.Context, token *identityDomain.Token) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*identityDomain.Token, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUseCase defines the interface for user business logic operations.
type UserUseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*identityDomain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
}

// IssueTokenInput contains the credentials for token issuance.
type IssueTokenInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IssueTokenOutput carries the plain token, shown exactly once.
type IssueTokenOutput struct {
	PlainToken string `json:"token"`
}

// TokenUseCase defines the interface for bearer-token operations.
type TokenUseCase interface {
	Issue(ctx context.Context, input IssueTokenInput) (*IssueTokenOutput, error)
	Authenticate(ctx context.Context, tokenHash string) (*identityDomain.User, error)
	CleanExpired(ctx context.Context) (int64, error)
}
