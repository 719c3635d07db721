package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toqasaad97/invoice/internal/model"
)

var testNow = time.Date(2025, 10, 1, 15, 30, 0, 0, time.UTC)

// validInvoice returns a snapshot that passes every rule.
func validInvoice() *model.Invoice {
	inv := model.DefaultInvoice()
	inv.InvoiceNumber = "INV-1001"
	inv.InvoiceTo = "Acme Corp"
	inv.Customer = "Alice Smith"
	inv.Address = "1 Long Street, Springfield"
	inv.HotelName = "Grand Plaza"
	inv.HotelAddress = "42 Harbor Road, Springfield"
	inv.Email = []string{"alice@example.com"}
	inv.CheckInDate = "2025-10-10"
	inv.CheckOutDate = "2025-10-15"
	inv.TotalNights = 5
	inv.Table = []model.Room{{Nights: 5, Average: 250}}
	return inv
}

func TestValidate_ValidInvoice(t *testing.T) {
	errs := Validate(validInvoice(), testNow)
	assert.Empty(t, errs)
}

func TestValidate_RequiredStrings(t *testing.T) {
	tests := []struct {
		field   string
		mutate  func(*model.Invoice)
		message string
	}{
		{"invoiceNumber", func(i *model.Invoice) { i.InvoiceNumber = "IN" }, "Invoice number must be at least 3 characters"},
		{"invoiceTo", func(i *model.Invoice) { i.InvoiceTo = "" }, "Must be at least 3 characters"},
		{"customer", func(i *model.Invoice) { i.Customer = "Al" }, "Name must be at least 3 characters"},
		{"address", func(i *model.Invoice) { i.Address = "1 St" }, "Address must be at least 5 characters"},
		{"hotelName", func(i *model.Invoice) { i.HotelName = "GP" }, "Hotel name must be at least 3 characters"},
		{"hotelAddress", func(i *model.Invoice) { i.HotelAddress = "" }, "Address must be at least 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)

			errs := Validate(inv, testNow)

			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestValidate_Emails(t *testing.T) {
	inv := validInvoice()
	inv.Email = []string{"good@example.com", "not-an-email", ""}

	errs := Validate(inv, testNow)

	require.Len(t, errs, 1)
	assert.Equal(t, "email[1]", errs[0].Field)
	assert.Equal(t, "Invalid email format", errs[0].Message)
}

func TestValidate_Dates(t *testing.T) {
	t.Run("check-in must not be in the past", func(t *testing.T) {
		inv := validInvoice()
		inv.CheckInDate = "2025-09-30"

		errs := Validate(inv, testNow)

		assert.Contains(t, errs.ByField(), "checkInDate")
	})

	t.Run("check-in on today passes", func(t *testing.T) {
		inv := validInvoice()
		inv.CheckInDate = "2025-10-01"

		errs := Validate(inv, testNow)

		assert.NotContains(t, errs.ByField(), "checkInDate")
	})

	t.Run("check-out must be after check-in", func(t *testing.T) {
		inv := validInvoice()
		inv.CheckOutDate = "2025-10-10"

		errs := Validate(inv, testNow)

		byField := errs.ByField()
		assert.Equal(t, "Check-out date must be after check-in date", byField["checkOutDate"])
	})

	t.Run("empty dates are skipped", func(t *testing.T) {
		inv := validInvoice()
		inv.CheckInDate = ""
		inv.CheckOutDate = ""
		inv.TotalNights = 1
		inv.Table[0].Nights = 1

		errs := Validate(inv, testNow)

		byField := errs.ByField()
		assert.NotContains(t, byField, "checkInDate")
		assert.NotContains(t, byField, "checkOutDate")
	})

	t.Run("cut-off must be on or before check-in", func(t *testing.T) {
		inv := validInvoice()
		inv.CutOffDate = "2025-10-11"

		errs := Validate(inv, testNow)

		assert.Equal(t, "Cut-off date must be on or before check-in date", errs.ByField()["cutOffDate"])
	})

	t.Run("cut-off must not be in the past", func(t *testing.T) {
		inv := validInvoice()
		inv.CutOffDate = "2025-09-20"

		errs := Validate(inv, testNow)

		// Only the first failing rule per field surfaces.
		assert.Equal(t, "Cut-off date must be today or in the future", errs.ByField()["cutOffDate"])
		assert.Len(t, errs, 1)
	})

	t.Run("absent cut-off is fine", func(t *testing.T) {
		inv := validInvoice()
		inv.CutOffDate = ""

		errs := Validate(inv, testNow)

		assert.NotContains(t, errs.ByField(), "cutOffDate")
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		inv := validInvoice()
		inv.CheckInDate = "10/10/2025"

		errs := Validate(inv, testNow)

		assert.Equal(t, "Invalid date", errs.ByField()["checkInDate"])
	})
}

func TestValidate_NumericRanges(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*model.Invoice)
	}{
		{"negative tax", "taxInPercent", func(i *model.Invoice) { i.TaxInPercent = -1 }},
		{"tax above 100", "taxInPercent", func(i *model.Invoice) { i.TaxInPercent = 101 }},
		{"negative rooms", "totalRooms", func(i *model.Invoice) { i.TotalRooms = -1 }},
		{"zero nights", "totalNights", func(i *model.Invoice) { i.TotalNights = 0 }},
		{"zero adults", "numberOfAdults", func(i *model.Invoice) { i.NumberOfAdults = 0 }},
		{"negative collected", "collectedAmount", func(i *model.Invoice) { i.CollectedAmount = -10 }},
		{"negative refund", "refundAmount", func(i *model.Invoice) { i.RefundAmount = -10 }},
		{"negative penalty", "penaltyFees", func(i *model.Invoice) { i.PenaltyFees = -10 }},
		{"negative deposit", "deposit", func(i *model.Invoice) { i.Deposit = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)

			errs := Validate(inv, testNow)

			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidate_RoomRows(t *testing.T) {
	inv := validInvoice()
	inv.Table = []model.Room{
		{Nights: 5, Average: 250},
		{Nights: 0, Average: -1},
	}

	errs := Validate(inv, testNow)

	byField := errs.ByField()
	assert.Equal(t, "At least 1 night is required", byField["table[1].nights"])
	assert.Equal(t, "Must be 0 or more", byField["table[1].average"])
	assert.NotContains(t, byField, "table[0].nights")
}

func TestValidate_FirstFailurePerFieldOnly(t *testing.T) {
	inv := validInvoice()
	inv.TaxInPercent = -5

	errs := Validate(inv, testNow)

	require.Len(t, errs, 1)
	assert.Equal(t, "Must be positive", errs[0].Message)
}
