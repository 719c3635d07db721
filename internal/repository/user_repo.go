package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// User is a login account.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
}

// UserRepository handles users and their login sessions.
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user.
func (r *UserRepository) Create(userName, passwordHash string) error {
	_, err := r.db.Exec(
		"INSERT INTO users (user_name, password_hash) VALUES (?, ?)",
		userName, passwordHash,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("user_name", userName), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUserName retrieves a user by login name.
func (r *UserRepository) GetByUserName(userName string) (*User, error) {
	var user User
	err := r.db.QueryRow(
		"SELECT id, user_name, password_hash FROM users WHERE user_name = ?",
		userName,
	).Scan(&user.ID, &user.UserName, &user.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Count returns the number of registered users.
func (r *UserRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CreateSession records an issued token for a user.
func (r *UserRepository) CreateSession(token string, userID int64) error {
	_, err := r.db.Exec(
		"INSERT INTO sessions (token, user_id) VALUES (?, ?)",
		token, userID,
	)
	if err != nil {
		r.logger.Error("Failed to create session", zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a token to the owning user id.
func (r *UserRepository) GetSessionUser(token string) (int64, error) {
	var userID int64
	err := r.db.QueryRow("SELECT user_id FROM sessions WHERE token = ?", token).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get session: %w", err)
	}
	return userID, nil
}

// DeleteSession revokes a token. Deleting an unknown token is a no-op.
func (r *UserRepository) DeleteSession(token string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
