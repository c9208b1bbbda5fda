package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"

	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityService "github.com/credvault/credvault/internal/identity/service"
)

// tokenUseCase issues and validates bearer tokens.
type tokenUseCase struct {
	userRepo        UserRepository
	tokenRepo       TokenRepository
	tokenService    identityService.TokenService
	passwordHasher  *pwdhash.PasswordHasher
	tokenExpiration time.Duration
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	tokenService identityService.TokenService,
	tokenExpiration time.Duration,
) (TokenUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &tokenUseCase{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		tokenService:    tokenService,
		passwordHasher:  hasher,
		tokenExpiration: tokenExpiration,
	}, nil
}

// Issue verifies the email/password pair and returns a fresh bearer token.
// A wrong email and a wrong password produce the same error, so callers
// cannot enumerate accounts.
func (t *tokenUseCase) Issue(ctx context.Context, input IssueTokenInput) (*IssueTokenOutput, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := t.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identityDomain.ErrUserNotFound) {
			return nil, identityDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := t.passwordHasher.Verify([]byte(input.Password), user.Password)
	if err != nil || !ok {
		return nil, identityDomain.ErrInvalidCredentials
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &identityDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(t.tokenExpiration),
		RevokedAt: nil,
		CreatedAt: time.Now().UTC(),
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &IssueTokenOutput{PlainToken: plainToken}, nil
}

// Authenticate validates a token hash and returns the associated user.
// Not-found, expired, and revoked tokens all map to ErrInvalidCredentials.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*identityDomain.User, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, identityDomain.ErrTokenNotFound) {
			return nil, identityDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if token.ExpiresAt.Before(time.Now().UTC()) {
		return nil, identityDomain.ErrInvalidCredentials
	}
	if token.RevokedAt != nil {
		return nil, identityDomain.ErrInvalidCredentials
	}

	user, err := t.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, identityDomain.ErrUserNotFound) {
			return nil, identityDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// CleanExpired deletes tokens past their expiration and returns the number of
// rows removed.
func (t *tokenUseCase) CleanExpired(ctx context.Context) (int64, error) {
	count, err := t.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	return count, nil
}
