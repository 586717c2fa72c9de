package domain

// CompanyEarnings is one row of the platform earnings report, derived from
// the booking set at query time.
type CompanyEarnings struct {
	CompanyID          int32  `json:"company_id"`
	CompanyName        string `json:"company_name"`
	CompletedCents     int64  `json:"completed_cents"`
	PendingCents       int64  `json:"pending_cents"`
	ActiveBookingCount int32  `json:"active_booking_count"`
}

// PlatformSummary is the admin dashboard aggregate. PlatformFeeCents is the
// configured percentage of completed earnings only; bookings that were
// cancelled or never completed contribute nothing.
type PlatformSummary struct {
	TotalEarningsCents   int64             `json:"total_earnings_cents"`
	PendingEarningsCents int64             `json:"pending_earnings_cents"`
	PlatformFeeCents     int64             `json:"platform_fee_cents"`
	ActiveBookingCount   int32             `json:"active_booking_count"`
	Companies            []CompanyEarnings `json:"companies"`
}
