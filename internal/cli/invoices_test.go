package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toqasaad97/invoice/internal/model"
)

func writeInvoiceFile(t *testing.T, inv *model.Invoice) string {
	t.Helper()
	data, err := json.Marshal(inv)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "invoice.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func fileInvoice() *model.Invoice {
	inv := model.DefaultInvoice()
	inv.InvoiceNumber = "INV-4001"
	inv.InvoiceTo = "Acme Corp"
	inv.Customer = "Alice Smith"
	inv.Address = "1 Long Street, Springfield"
	inv.HotelName = "Grand Plaza"
	inv.HotelAddress = "42 Harbor Road, Springfield"
	inv.Email = []string{"alice@example.com"}
	inv.CheckInDate = "2099-10-10"
	inv.CheckOutDate = "2099-10-15"
	inv.Table = []model.Room{{Nights: 5, Average: 250}}
	return inv
}

func TestReadInvoiceFile(t *testing.T) {
	t.Run("derives nights before padding rows", func(t *testing.T) {
		inv := fileInvoice()
		// Stale count from the file; the dates say 5.
		inv.TotalNights = 1
		inv.TotalRooms = 2

		got, err := readInvoiceFile(writeInvoiceFile(t, inv))
		require.NoError(t, err)

		assert.Equal(t, 5, got.TotalNights)
		require.Len(t, got.Table, 2)
		assert.Equal(t, 5, got.Table[1].Nights)
		assert.Equal(t, "1250.00", got.RemainingBalanceDue)
	})

	t.Run("rejects an invalid file before any network use", func(t *testing.T) {
		inv := fileInvoice()
		inv.InvoiceNumber = "X"

		_, err := readInvoiceFile(writeInvoiceFile(t, inv))
		assert.ErrorContains(t, err, "failed validation")
	})

	t.Run("missing file is reported", func(t *testing.T) {
		_, err := readInvoiceFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorContains(t, err, "failed to read invoice file")
	})
}
