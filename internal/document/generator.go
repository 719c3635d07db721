// Package document renders invoices and vouchers into printable workbooks
// served as binary downloads.
package document

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/form"
	"github.com/toqasaad97/invoice/internal/model"
)

const sheetName = "Sheet1"

// Generator builds invoice and voucher documents.
type Generator struct {
	companyName string
	logger      *zap.Logger
}

// NewGenerator creates a new document generator
func NewGenerator(companyName string, logger *zap.Logger) *Generator {
	return &Generator{
		companyName: companyName,
		logger:      logger,
	}
}

// RenderInvoice renders the full invoice document and returns its bytes.
func (g *Generator) RenderInvoice(inv *model.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	g.setCell(f, "A1", g.companyName)
	g.setCell(f, "A2", "Invoice "+inv.InvoiceNumber)
	g.setCell(f, "A3", "Reference: "+inv.ReferenceNumber)

	g.setCell(f, "A5", "Billed to")
	g.setCell(f, "B5", inv.InvoiceTo)
	g.setCell(f, "B6", inv.Customer)
	g.setCell(f, "B7", inv.Company)
	g.setCell(f, "B8", inv.Address)
	g.setCell(f, "B9", strings.Join(inv.Phone, ", "))
	g.setCell(f, "B10", strings.Join(inv.Email, ", "))

	g.setCell(f, "A12", "Hotel")
	g.setCell(f, "B12", inv.HotelName)
	g.setCell(f, "B13", inv.HotelAddress)
	g.setCell(f, "B14", inv.HotelPhone)

	g.setCell(f, "A16", "Check-in")
	g.setCell(f, "B16", inv.CheckInDate)
	g.setCell(f, "C16", inv.HotelCheckIn)
	g.setCell(f, "A17", "Check-out")
	g.setCell(f, "B17", inv.CheckOutDate)
	g.setCell(f, "C17", inv.HotelCheckOut)
	g.setCell(f, "A18", "Nights")
	g.setCell(f, "B18", fmt.Sprintf("%d", inv.TotalNights))
	g.setCell(f, "A19", "Rooms")
	g.setCell(f, "B19", fmt.Sprintf("%d", inv.TotalRooms))
	g.setCell(f, "A20", "Adults")
	g.setCell(f, "B20", fmt.Sprintf("%d", inv.NumberOfAdults))

	// Room table header
	row := 22
	for col, header := range []string{"Guest", "Check-in", "Check-out", "Room", "Bed", "Smoking", "Breakfast", "Extras", "Nights", "Rate"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		g.setCell(f, cell, header)
	}
	for _, room := range inv.Table {
		row++
		breakfast := "No"
		if room.Breakfast {
			breakfast = "Yes"
		}
		values := []string{
			room.Customer, room.CheckInDate, room.CheckOutDate,
			room.RoomType, room.BedType, room.Smoking, breakfast, room.Extras,
			fmt.Sprintf("%d", room.Nights), formatAmount(room.Average, inv.Currency),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			g.setCell(f, cell, value)
		}
	}

	totals := form.Compute(inv)
	row += 2
	g.writeTotal(f, &row, "Subtotal", totals.Subtotal, inv.Currency)
	g.writeTotal(f, &row, fmt.Sprintf("Tax (%.2f%%)", inv.TaxInPercent), totals.Tax, inv.Currency)
	if inv.PenaltyFees > 0 {
		name := inv.PenaltyFeesName
		if name == "" {
			name = "Penalty Fees"
		}
		g.writeTotal(f, &row, name, inv.PenaltyFees, inv.Currency)
	}
	g.writeTotal(f, &row, "Grand total", totals.GrandTotal, inv.Currency)
	g.writeTotal(f, &row, "Collected", inv.CollectedAmount, inv.Currency)
	if inv.RefundAmount > 0 {
		g.writeTotal(f, &row, "Refunded", inv.RefundAmount, inv.Currency)
	}
	g.writeTotal(f, &row, "Remaining balance due", totals.RemainingBalance, inv.Currency)

	if inv.Attrition != "" {
		row++
		g.setCell(f, fmt.Sprintf("A%d", row), "Attrition: "+inv.Attrition)
	}
	if inv.Cancellation != "" {
		row++
		g.setCell(f, fmt.Sprintf("A%d", row), "Cancellation: "+inv.Cancellation)
	}
	if inv.CutOffDate != "" {
		row++
		g.setCell(f, fmt.Sprintf("A%d", row), "Cut-off date: "+inv.CutOffDate)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write invoice document: %w", err)
	}

	g.logger.Info("Rendered invoice document",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("rooms", len(inv.Table)))
	return buf.Bytes(), nil
}

// RenderVoucher renders a voucher for a stored invoice.
func (g *Generator) RenderVoucher(inv *model.Invoice, details, validUntil string, amount float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	g.setCell(f, "A1", g.companyName)
	g.setCell(f, "A2", "Voucher for invoice "+inv.InvoiceNumber)
	g.setCell(f, "A4", "Customer")
	g.setCell(f, "B4", inv.Customer)
	g.setCell(f, "A5", "Hotel")
	g.setCell(f, "B5", inv.HotelName)
	g.setCell(f, "A6", "Details")
	g.setCell(f, "B6", details)
	g.setCell(f, "A7", "Amount")
	g.setCell(f, "B7", formatAmount(amount, inv.Currency))
	g.setCell(f, "A8", "Valid until")
	g.setCell(f, "B8", validUntil)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write voucher document: %w", err)
	}

	g.logger.Info("Rendered voucher",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Float64("amount", amount))
	return buf.Bytes(), nil
}

// writeTotal writes one label/value pair of the totals block.
func (g *Generator) writeTotal(f *excelize.File, row *int, label string, value float64, currency string) {
	g.setCell(f, fmt.Sprintf("A%d", *row), label)
	g.setCell(f, fmt.Sprintf("B%d", *row), formatAmount(value, currency))
	*row++
}

// setCell sets a cell value, logging rather than failing on errors.
func (g *Generator) setCell(f *excelize.File, cell, value string) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		g.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func formatAmount(value float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", value, currency)
}
