package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Booking is one rental of one car. TotalCostCents is a snapshot of
// days x price_per_day at creation time and never changes afterwards.
// CompanyID is denormalized from the car so company dashboards and
// earnings queries never need a join back through cars.
type Booking struct {
	ID             int32         `json:"id"`
	CarID          int32         `json:"car_id"`
	UserID         int32         `json:"user_id"`
	CompanyID      int32         `json:"company_id"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	TotalCostCents int32         `json:"total_cost_cents"`
	Status         BookingStatus `json:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Rating         *int32        `json:"rating,omitempty"` // set once, only after completion
	CreatedOn      time.Time     `json:"created_on"`
	Car            *Car          `json:"car,omitempty"` // populated on list-for-user fetches
}

// IsTerminal reports whether no further status transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// validTransitions holds the only permitted forward edges of the booking
// state machine. Repeating the current status is not an edge: confirming a
// confirmed booking fails rather than silently no-opping.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveAt reports whether the booking occupies the car at the given moment:
// not cancelled, and the moment falls inside [StartDate, EndDate] inclusive.
func (b *Booking) ActiveAt(now time.Time) bool {
	if b.Status == BookingStatusCancelled {
		return false
	}
	return !now.Before(b.StartDate) && !now.After(b.EndDate)
}
