package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/model"
	"github.com/toqasaad97/invoice/pkg/database"
)

func setupDB(t *testing.T) *database.DB {
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
	return db
}

func sampleInvoice(id, number string) *model.Invoice {
	inv := model.DefaultInvoice()
	inv.ID = id
	inv.InvoiceNumber = number
	inv.Customer = "Alice Smith"
	inv.Currency = "USD"
	return inv
}

func TestInvoiceRepositoryRoundtrip(t *testing.T) {
	db := setupDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	inv := sampleInvoice("id-1", "INV-1")
	require.NoError(t, repo.Create(inv))
	assert.NotEmpty(t, inv.CreatedAt, "create stamps the record")

	got, err := repo.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "INV-1", got.InvoiceNumber)
	assert.Equal(t, "Alice Smith", got.Customer)
	require.Len(t, got.Table, 1, "the document column preserves nested rows")

	got.Customer = "Bob Jones"
	require.NoError(t, repo.Update(got))

	reloaded, err := repo.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", reloaded.Customer)
}

func TestInvoiceRepositoryNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByInvoiceNumber("INV-0")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Update(sampleInvoice("missing", "INV-0"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceRepositoryList(t *testing.T) {
	db := setupDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	require.NoError(t, repo.Create(sampleInvoice("id-1", "INV-1")))
	require.NoError(t, repo.Create(sampleInvoice("id-2", "INV-2")))

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestGetByInvoiceNumberPrefersNewest(t *testing.T) {
	db := setupDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	older := sampleInvoice("id-1", "INV-1")
	require.NoError(t, repo.Create(older))

	newer := sampleInvoice("id-2", "INV-1")
	newer.Customer = "Carol Diaz"
	require.NoError(t, repo.Create(newer))

	got, err := repo.GetByInvoiceNumber("INV-1")
	require.NoError(t, err)
	assert.Equal(t, "id-2", got.ID)
}
