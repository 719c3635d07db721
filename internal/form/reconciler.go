package form

import "github.com/toqasaad97/invoice/internal/model"

// Reconcile resizes the invoice's room table to count and writes count back
// into TotalRooms. Growing appends rows defaulted with the invoice's shared
// dates and current night count; shrinking truncates from the end, leaving
// surviving rows untouched. Counts below zero are treated as zero; clamping
// to a usable minimum is the validation layer's job, not this one's.
func Reconcile(inv *model.Invoice, count int) {
	if count < 0 {
		count = 0
	}

	switch {
	case count > len(inv.Table):
		for i := len(inv.Table); i < count; i++ {
			inv.Table = append(inv.Table, newRow(inv))
		}
	case count < len(inv.Table):
		inv.Table = inv.Table[:count]
	}

	inv.TotalRooms = count
}

// newRow builds a default line item inheriting the invoice's shared stay
// window.
func newRow(inv *model.Invoice) model.Room {
	room := model.DefaultRoom()
	room.CheckInDate = inv.CheckInDate
	room.CheckOutDate = inv.CheckOutDate
	if inv.TotalNights >= 1 {
		room.Nights = inv.TotalNights
	}
	return room
}

// SetSharedDates updates the invoice's shared check-in/check-out window and
// propagates it to every room row whose dates were not manually edited.
// Affected rows get their night count recomputed from the new window.
func SetSharedDates(inv *model.Invoice, checkIn, checkOut string) {
	inv.CheckInDate = checkIn
	inv.CheckOutDate = checkOut
	inv.TotalNights = TotalNights(checkIn, checkOut)

	for i := range inv.Table {
		if inv.Table[i].DatesEdited {
			continue
		}
		inv.Table[i].CheckInDate = checkIn
		inv.Table[i].CheckOutDate = checkOut
		inv.Table[i].Nights = inv.TotalNights
	}
}

// SetRoomDates overrides one row's stay window and marks it as manually
// edited so later shared-date changes leave it alone. Out-of-range indexes
// are ignored.
func SetRoomDates(inv *model.Invoice, index int, checkIn, checkOut string) {
	if index < 0 || index >= len(inv.Table) {
		return
	}
	room := &inv.Table[index]
	room.CheckInDate = checkIn
	room.CheckOutDate = checkOut
	room.Nights = TotalNights(checkIn, checkOut)
	room.DatesEdited = true
}
