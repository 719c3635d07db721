package model

import "time"

// DateLayout is the wire format for all invoice dates.
const DateLayout = "2006-01-02"

// Room is one line item of an invoice: a single room's stay terms and price.
// Rooms are value objects owned by their invoice; they are added and removed
// only through form.Reconcile.
type Room struct {
	Customer     string  `json:"customer"`
	CheckInDate  string  `json:"checkInDate"`
	CheckOutDate string  `json:"checkOutDate"`
	RoomType     string  `json:"roomType"`
	BedType      string  `json:"bedType"`
	Smoking      string  `json:"smoking"`
	Breakfast    bool    `json:"breakfast"`
	Extras       string  `json:"extras"`
	Nights       int     `json:"nights"`
	Average      float64 `json:"average"`
	// DatesEdited marks a row whose dates were set by hand. Shared
	// check-in/check-out changes only propagate to rows without it.
	DatesEdited bool `json:"datesEdited,omitempty"`
}

// Action is one entry of an invoice's audit trail.
type Action struct {
	Date   string `json:"date"`
	Action string `json:"action"`
}

// Invoice is a single billing record for one customer's hotel stay.
type Invoice struct {
	ID             string   `json:"_id,omitempty"`
	InvoiceNumber  string   `json:"invoiceNumber"`
	InvoiceTo      string   `json:"invoiceTo"`
	Customer       string   `json:"customer"`
	Company        string   `json:"company"`
	Address        string   `json:"address"`
	Phone          []string `json:"phone"`
	Email          []string `json:"email"`
	HotelName      string   `json:"hotelName"`
	HotelAddress   string   `json:"hotelAddress"`
	HotelPhone     string   `json:"hotelPhone"`
	CheckInDate    string   `json:"checkInDate"`
	CheckOutDate   string   `json:"checkOutDate"`
	HotelCheckIn   string   `json:"hotelCheckIn"`
	HotelCheckOut  string   `json:"hotelCheckOut"`
	CutOffDate     string   `json:"cutOffDate"`
	TotalRooms     int      `json:"totalRooms"`
	TotalNights    int      `json:"totalNights"`
	NumberOfAdults int      `json:"numberOfAdults"`

	TaxInPercent    float64 `json:"taxInPercent"`
	CollectedAmount float64 `json:"collectedAmount"`
	RefundAmount    float64 `json:"refundAmount"`
	PenaltyFees     float64 `json:"penaltyFees"`
	PenaltyFeesName string  `json:"penaltyFeesName"`
	Deposit         float64 `json:"deposit"`
	Currency        string  `json:"currency"`

	ReferenceNumber     string `json:"referenceNumber"`
	Attrition           string `json:"attrition"`
	Cancellation        string `json:"cancellation"`
	CancellationPolicy  string `json:"cancellationPolicy"`
	ModificationDate    string `json:"modificationDate"`
	RemainingBalanceDue string `json:"remainingBalanceDue"`
	CreditCard          string `json:"creditCard"`

	Table   []Room   `json:"table"`
	Actions []Action `json:"Actions,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ListItem is the summary shape returned by the list endpoint.
type ListItem struct {
	ID              string   `json:"_id"`
	InvoiceNumber   string   `json:"invoiceNumber,omitempty"`
	ReferenceNumber string   `json:"referenceNumber,omitempty"`
	Email           []string `json:"email"`
	TotalAmount     float64  `json:"totalAmount,omitempty"`
	Currency        string   `json:"currency,omitempty"`
}

// Currencies maps supported currency codes to display names.
var Currencies = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"CAD": "Canadian Dollar",
}

// DefaultRoom returns a blank room line item.
func DefaultRoom() Room {
	return Room{
		Smoking: "Non-smoking",
		Nights:  1,
	}
}

// DefaultInvoice returns the empty invoice a creation form starts from:
// one room, one night, USD, blank identity fields.
func DefaultInvoice() *Invoice {
	return &Invoice{
		Phone:           []string{""},
		Email:           []string{""},
		TotalRooms:      1,
		TotalNights:     1,
		NumberOfAdults:  1,
		PenaltyFeesName: "Penalty Fees",
		Currency:        "USD",
		Table:           []Room{DefaultRoom()},
	}
}

// ParseDate parses a wire-format date. The zero time and false are returned
// for empty or malformed values.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Stamp appends an audit trail entry with the current UTC time.
func (inv *Invoice) Stamp(action string) {
	inv.Actions = append(inv.Actions, Action{
		Date:   time.Now().UTC().Format(time.RFC3339),
		Action: action,
	})
}
