package repository

import (
	"context"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id int32) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company *domain.Company) error

	// SetVerification writes the tri-state verification flag:
	// nil = pending, false = disabled, true = verified.
	SetVerification(ctx context.Context, id int32, verified *bool) error
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error

	// AppendMedia appends image and document URIs to the car's existing
	// lists. Existing entries are never replaced or reordered.
	AppendMedia(ctx context.Context, carID int32, images, documents []string) error

	SetAvailability(ctx context.Context, carID int32, available bool) error

	// ListAvailable returns available cars whose owning company is verified,
	// narrowed and ordered by the filter.
	ListAvailable(ctx context.Context, filter domain.CarFilter) ([]domain.Car, int32, error)
	ListByCompany(ctx context.Context, companyID int32, page, pageSize int32) ([]domain.Car, int32, error)
	GetReviews(ctx context.Context, carID int32) ([]domain.Review, error)

	// ReconcileAvailability recomputes every car's cached availability flag
	// from the active-booking definition and returns the number of cars whose
	// flag changed. Run by the nightly cache-repair job.
	ReconcileAvailability(ctx context.Context) (int64, error)
}

type BookingRepository interface {
	// CreateIfAvailable inserts the booking in one transaction that locks the
	// car row, re-checks the availability flag and date-interval overlap
	// against all non-cancelled bookings, refreshes the car's cached flag,
	// and enqueues the confirmation notification when one is supplied.
	// Returns domain.ErrCarUnavailable when the car is already taken: of two
	// concurrent requests for the same window, exactly one succeeds.
	CreateIfAvailable(ctx context.Context, booking *domain.Booking, note *domain.Notification) error

	GetByID(ctx context.Context, id int32) (*domain.Booking, error)

	// UpdateStatus moves the booking from one status to another with a
	// conditional write; a concurrent transition that already moved the row
	// surfaces as domain.ErrInvalidTransition. The car's cached availability
	// flag is refreshed in the same transaction, and a completion bumps the
	// owning company's cached booking/earnings counters.
	UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error

	// RecordPayment flips payment_status to completed while the booking is
	// still in the given status, and eagerly marks the car unavailable.
	RecordPayment(ctx context.Context, id int32, status domain.BookingStatus) error

	// RateAndReview sets the one-time booking rating, inserts the review and
	// recomputes the car's average rating as the arithmetic mean, all in one
	// transaction. Returns domain.ErrAlreadyRated when the booking already
	// carries a rating or the user already reviewed this car.
	RateAndReview(ctx context.Context, bookingID int32, review *domain.Review) (float64, error)

	ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByCompany(ctx context.Context, companyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)

	// ListElapsedUnpaid returns pending bookings whose window has fully
	// passed without payment, for the nightly report job.
	ListElapsedUnpaid(ctx context.Context) ([]domain.Booking, error)
}

type NotificationRepository interface {
	// Enqueue writes an outbox row outside any surrounding transaction.
	// Booking creation instead enqueues inside its own transaction; status
	// change notices go through here.
	Enqueue(ctx context.Context, note *domain.Notification) error
	ListPending(ctx context.Context, limit int32) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id int32) error
	// MarkAttempt bumps the attempt counter; when exhausted is true the row
	// is parked as failed and never retried.
	MarkAttempt(ctx context.Context, id int32, exhausted bool) error
}

type ReportRepository interface {
	// TotalEarnings sums total_cost_cents over completed bookings. A zero
	// companyID means platform-wide.
	TotalEarnings(ctx context.Context, companyID int32) (int64, error)
	// PendingEarnings sums total_cost_cents over pending and confirmed bookings.
	PendingEarnings(ctx context.Context, companyID int32) (int64, error)
	// ActiveBookingCount counts non-cancelled bookings whose date range
	// contains today.
	ActiveBookingCount(ctx context.Context, companyID int32) (int32, error)
	// CompanyEarnings returns the per-company breakdown for the admin report.
	CompanyEarnings(ctx context.Context) ([]domain.CompanyEarnings, error)
}
