// Package auth issues and verifies the opaque bearer tokens the invoice API
// runs on. Tokens have no expiry; a session lives until it is revoked.
package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/toqasaad97/invoice/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned for tokens with no live session.
var ErrInvalidToken = errors.New("invalid token")

// Service handles login and token verification.
type Service struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(users *repository.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger,
	}
}

// SeedAdmin creates the configured admin account when the users table is
// empty. Safe to call on every start.
func (s *Service) SeedAdmin(userName, password string) error {
	count, err := s.users.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := s.users.Create(userName, string(hash)); err != nil {
		return err
	}

	s.logger.Info("Seeded admin user", zap.String("user_name", userName))
	return nil
}

// Login verifies credentials and issues a new session token.
func (s *Service) Login(userName, password string) (string, error) {
	user, err := s.users.GetByUserName(userName)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Rejected login", zap.String("user_name", userName))
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.users.CreateSession(token, user.ID); err != nil {
		return "", err
	}

	s.logger.Info("Issued session token", zap.String("user_name", userName))
	return token, nil
}

// Verify resolves a bearer token to a user id.
func (s *Service) Verify(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	userID, err := s.users.GetSessionUser(token)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}
