// Package form holds the invoice form logic shared by the client, the CLI and
// the reference server: keeping the room table in sync with the room counter,
// recomputing derived totals, and validating a snapshot before submission.
package form

import (
	"math"
	"strconv"

	"github.com/toqasaad97/invoice/internal/model"
)

// Totals are the derived monetary rollups of one invoice snapshot.
type Totals struct {
	Subtotal         float64 `json:"subtotal"`
	Tax              float64 `json:"tax"`
	GrandTotal       float64 `json:"grandTotal"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// TotalNights returns the whole-night span between two wire-format dates,
// ceiling-rounded. Missing, malformed, equal or inverted dates all yield 1.
func TotalNights(checkIn, checkOut string) int {
	in, ok := model.ParseDate(checkIn)
	if !ok {
		return 1
	}
	out, ok := model.ParseDate(checkOut)
	if !ok {
		return 1
	}
	nights := int(math.Ceil(out.Sub(in).Hours() / 24))
	if nights < 1 {
		return 1
	}
	return nights
}

// RoomSubtotal sums nights*average over all room rows.
func RoomSubtotal(table []model.Room) float64 {
	var sum float64
	for _, room := range table {
		sum += float64(room.Nights) * room.Average
	}
	return sum
}

// Tax returns the tax amount for a subtotal at the given percentage.
func Tax(subtotal, taxInPercent float64) float64 {
	return subtotal * taxInPercent / 100
}

// GrandTotal adds tax and penalty fees to the room subtotal. Penalty fees are
// never taxed; they are added after tax.
func GrandTotal(subtotal, tax, penaltyFees float64) float64 {
	return subtotal + tax + penaltyFees
}

// RemainingBalance is the grand total minus what was already collected and
// refunded. A negative result is a credit owed to the customer; it is not
// clamped.
func RemainingBalance(grandTotal, collected, refund float64) float64 {
	return grandTotal - collected - refund
}

// Compute derives all monetary rollups from an invoice snapshot without
// mutating it.
func Compute(inv *model.Invoice) Totals {
	subtotal := RoomSubtotal(inv.Table)
	tax := Tax(subtotal, inv.TaxInPercent)
	total := GrandTotal(subtotal, tax, inv.PenaltyFees)
	return Totals{
		Subtotal:         subtotal,
		Tax:              tax,
		GrandTotal:       total,
		RemainingBalance: RemainingBalance(total, inv.CollectedAmount, inv.RefundAmount),
	}
}

// Refresh recomputes every derived field on the invoice after a mutation:
// total nights from the shared dates, then the monetary rollups. The computed
// totals are returned for display.
func Refresh(inv *model.Invoice) Totals {
	inv.TotalNights = TotalNights(inv.CheckInDate, inv.CheckOutDate)
	totals := Compute(inv)
	inv.RemainingBalanceDue = strconv.FormatFloat(totals.RemainingBalance, 'f', 2, 64)
	return totals
}
