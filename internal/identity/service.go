// Package identity is the store the relay trusts for credentials. The
// chat core never sees passwords or hashes, only usernames.
package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/repository"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/jwt"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service verifies credentials and issues session tokens.
type Service struct {
	repo   repository.UserRepository
	tokens *jwt.Manager
	cost   int
}

func NewService(repo repository.UserRepository, tokens *jwt.Manager, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, tokens: tokens, cost: bcryptCost}
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to hash password")
		return err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return ErrUsernameTaken
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to create user")
		return err
	}
	return nil
}

// Verify reports whether the credentials match a registered account.
func (s *Service) Verify(ctx context.Context, username, password string) bool {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Login verifies credentials and returns a session token response.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to get user")
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate token")
		return nil, err
	}

	return &domain.AuthResponse{
		Username:    user.Username,
		AccessToken: token,
		ExpiresAt:   exp,
	}, nil
}

// Register creates the account and logs it straight in.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	if err := s.Create(ctx, username, password); err != nil {
		return nil, err
	}
	return s.Login(ctx, username, password)
}

// SessionUsername resolves a session token to its username. An empty
// or invalid token yields "".
func (s *Service) SessionUsername(token string) string {
	if token == "" {
		return ""
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return ""
	}
	return claims.Username
}
