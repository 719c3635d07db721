package form

import (
	"fmt"
	"regexp"
	"time"

	"github.com/toqasaad97/invoice/internal/model"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is the ordered set of validation failures for one snapshot. At most
// one failure is kept per field: only the first failing rule surfaces.
type Errors []FieldError

// ByField returns failures keyed by field name, ready for a JSON response.
func (e Errors) ByField() map[string]string {
	if len(e) == 0 {
		return nil
	}
	m := make(map[string]string, len(e))
	for _, fe := range e {
		m[fe.Field] = fe.Message
	}
	return m
}

// Validate evaluates all field rules against the invoice snapshot. Failures
// never mutate the snapshot; they only block submission. now anchors the
// today-or-later date rules.
func Validate(inv *model.Invoice, now time.Time) Errors {
	v := validator{failed: map[string]bool{}}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	v.requiredString("invoiceNumber", inv.InvoiceNumber, 3, "Invoice number must be at least 3 characters")
	v.requiredString("invoiceTo", inv.InvoiceTo, 3, "Must be at least 3 characters")
	v.requiredString("customer", inv.Customer, 3, "Name must be at least 3 characters")
	v.requiredString("address", inv.Address, 5, "Address must be at least 5 characters")
	v.requiredString("hotelName", inv.HotelName, 3, "Hotel name must be at least 3 characters")
	v.requiredString("hotelAddress", inv.HotelAddress, 5, "Address must be at least 5 characters")

	for i, addr := range inv.Email {
		if addr != "" && !emailRegex.MatchString(addr) {
			v.fail(fmt.Sprintf("email[%d]", i), "Invalid email format")
		}
	}

	checkIn, checkInOK := model.ParseDate(inv.CheckInDate)
	if inv.CheckInDate != "" {
		switch {
		case !checkInOK:
			v.fail("checkInDate", "Invalid date")
		case checkIn.Before(today):
			v.fail("checkInDate", "Check-in date must be today or in the future")
		}
	}

	if inv.CheckOutDate != "" {
		checkOut, ok := model.ParseDate(inv.CheckOutDate)
		switch {
		case !ok:
			v.fail("checkOutDate", "Invalid date")
		case checkInOK && !checkOut.After(checkIn):
			v.fail("checkOutDate", "Check-out date must be after check-in date")
		}
	}

	if inv.CutOffDate != "" {
		cutOff, ok := model.ParseDate(inv.CutOffDate)
		switch {
		case !ok:
			v.fail("cutOffDate", "Invalid date")
		case checkInOK && cutOff.After(checkIn):
			v.fail("cutOffDate", "Cut-off date must be on or before check-in date")
		case cutOff.Before(today):
			v.fail("cutOffDate", "Cut-off date must be today or in the future")
		}
	}

	if inv.TaxInPercent < 0 {
		v.fail("taxInPercent", "Must be positive")
	} else if inv.TaxInPercent > 100 {
		v.fail("taxInPercent", "Cannot exceed 100%")
	}

	v.minInt("totalRooms", inv.TotalRooms, 0, "Cannot be negative")
	v.minInt("totalNights", inv.TotalNights, 1, "At least 1 night is required")
	v.minInt("numberOfAdults", inv.NumberOfAdults, 1, "At least 1 adult is required")
	v.minFloat("collectedAmount", inv.CollectedAmount, "Cannot be negative")
	v.minFloat("refundAmount", inv.RefundAmount, "Cannot be negative")
	v.minFloat("penaltyFees", inv.PenaltyFees, "Cannot be negative")
	v.minFloat("deposit", inv.Deposit, "Cannot be negative")

	for i, room := range inv.Table {
		if room.Nights < 1 {
			v.fail(fmt.Sprintf("table[%d].nights", i), "At least 1 night is required")
		}
		if room.Average < 0 {
			v.fail(fmt.Sprintf("table[%d].average", i), "Must be 0 or more")
		}
	}

	return v.errs
}

// validator accumulates failures, keeping only the first one per field.
type validator struct {
	errs   Errors
	failed map[string]bool
}

func (v *validator) fail(field, message string) {
	if v.failed[field] {
		return
	}
	v.failed[field] = true
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *validator) requiredString(field, value string, minLen int, message string) {
	if len(value) < minLen {
		v.fail(field, message)
	}
}

func (v *validator) minInt(field string, value, minVal int, message string) {
	if value < minVal {
		v.fail(field, message)
	}
}

func (v *validator) minFloat(field string, value float64, message string) {
	if value < 0 {
		v.fail(field, message)
	}
}
