package domain

// Company is the profile record of a rental company user. IsVerified is
// tri-state: nil = pending admin review, false = disabled, true = verified.
// Only verified companies surface cars in the public catalog or accept
// bookings.
//
// TotalBookings and TotalEarningsCents are display caches bumped on booking
// completion; reporting always recomputes authoritative figures from the
// booking set.
type Company struct {
	ID                int32    `json:"id"` // same id as the owning user row
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Address           string   `json:"address"`
	Documents         []string `json:"documents"`
	IsVerified        *bool    `json:"is_verified"`
	Rating            float64  `json:"rating"`
	TotalBookings     int32    `json:"total_bookings"`
	TotalEarningsCents int64   `json:"total_earnings_cents"`
	CreatedOn         string   `json:"created_on"`
}

// Verified reports whether the company passed admin verification. Pending
// (nil) and disabled (false) both fail.
func (c *Company) Verified() bool {
	return c.IsVerified != nil && *c.IsVerified
}
