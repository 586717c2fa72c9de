package service

import (
	"context"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
)

type AuthService interface {
	SignupCustomer(ctx context.Context, name, email, phone, cnic, password string) (*domain.User, string, string, error)
	// RegisterCompany creates the company user and its profile in pending
	// verification state; an admin has to verify it before its cars surface.
	RegisterCompany(ctx context.Context, name, email, phone, address, password string, documents []string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	// ResolvePrincipal builds the request-scoped principal for a user id,
	// including the owning company's current verification state.
	ResolvePrincipal(ctx context.Context, userID int32) (security.Principal, error)
	// ResolveFirebasePrincipal maps a verified provider email onto the local
	// user record.
	ResolveFirebasePrincipal(ctx context.Context, email string) (security.Principal, error)
}

type CatalogService interface {
	ListAvailable(ctx context.Context, filter domain.CarFilter) ([]domain.Car, int32, error)
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	AddCar(ctx context.Context, p security.Principal, car *domain.Car) error
	UpdateCar(ctx context.Context, p security.Principal, carID int32, patch domain.CarPatch) (*domain.Car, error)
	SetAvailability(ctx context.Context, p security.Principal, carID int32, available bool) error
	ListCompanyCars(ctx context.Context, p security.Principal, page, pageSize int32) ([]domain.Car, int32, error)
}

type BookingService interface {
	Create(ctx context.Context, p security.Principal, carID int32, startDate, endDate string) (*domain.Booking, error)
	Get(ctx context.Context, p security.Principal, bookingID int32) (*domain.Booking, error)
	Cancel(ctx context.Context, p security.Principal, bookingID int32) (*domain.Booking, error)
	RecordPayment(ctx context.Context, p security.Principal, bookingID int32) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, p security.Principal, bookingID int32, newStatus domain.BookingStatus) (*domain.Booking, error)
	// Rate returns the car's recomputed average rating.
	Rate(ctx context.Context, p security.Principal, bookingID int32, rating int32, comment string) (float64, error)
	ListForUser(ctx context.Context, p security.Principal, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListForCompany(ctx context.Context, p security.Principal, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type ReportingService interface {
	// CompanyDashboard derives the company's earnings figures from the
	// booking set; cached company counters are never consulted.
	CompanyDashboard(ctx context.Context, p security.Principal) (*domain.CompanyEarnings, error)
	PlatformSummary(ctx context.Context, p security.Principal) (*domain.PlatformSummary, error)
}

type AdminService interface {
	ListCompanies(ctx context.Context, p security.Principal) ([]domain.Company, error)
	// SetCompanyVerification writes the tri-state flag: true verifies,
	// false disables, nil returns the company to pending.
	SetCompanyVerification(ctx context.Context, p security.Principal, companyID int32, verified *bool) error
}

// Dispatcher delivers one notification over a single channel.
type Dispatcher interface {
	Channel() domain.NotificationChannel
	Send(ctx context.Context, n *domain.Notification) error
}

type OutboxService interface {
	// DispatchPending delivers queued notifications best-effort and reports
	// how many were sent and how many failed this round.
	DispatchPending(ctx context.Context) (sent, failed int, err error)
}
