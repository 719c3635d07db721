package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/repository"
	"github.com/toqasaad97/invoice/pkg/database"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations())

	return NewService(repository.NewUserRepository(db.DB, logger), logger)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	svc := setupService(t)

	require.NoError(t, svc.SeedAdmin("admin", "secret"))
	// Second seed with a different password must not touch the account.
	require.NoError(t, svc.SeedAdmin("admin", "other"))

	_, err := svc.Login("admin", "secret")
	assert.NoError(t, err)

	_, err = svc.Login("admin", "other")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAndVerify(t *testing.T) {
	svc := setupService(t)
	require.NoError(t, svc.SeedAdmin("admin", "secret"))

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		token, err := svc.Login("admin", "secret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		userID, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Positive(t, userID)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, err := svc.Login("nobody", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login("admin", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown and empty tokens are rejected", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = svc.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
