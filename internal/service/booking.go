package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
	"github.com/DaniyalGhauri/DriveSmart/internal/utils"
)

// maxRentalDays bounds a single booking so the cents snapshot always fits
// the store's integer column.
const maxRentalDays = 365

type bookingService struct {
	bookingRepo      repository.BookingRepository
	carRepo          repository.CarRepository
	companyRepo      repository.CompanyRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) BookingService {
	return &bookingService{
		bookingRepo:      bookingRepo,
		carRepo:          carRepo,
		companyRepo:      companyRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *bookingService) Create(ctx context.Context, p security.Principal, carID int32, startDateStr, endDateStr string) (*domain.Booking, error) {
	if !p.IsCustomer() {
		return nil, domain.ErrPermissionDenied
	}

	start, err := utils.ParseDate(startDateStr)
	if err != nil {
		return nil, domain.NewValidationError("start_date", err.Error())
	}
	end, err := utils.ParseDate(endDateStr)
	if err != nil {
		return nil, domain.NewValidationError("end_date", err.Error())
	}
	if !start.Before(end) {
		return nil, domain.NewValidationError("end_date", "must be after start date")
	}
	if start.Before(utils.Today()) {
		return nil, domain.NewValidationError("start_date", "must not be in the past")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, car.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.Verified() {
		return nil, domain.ErrCompanyNotVerified
	}

	// Cost snapshot at today's listed price; later price edits never touch
	// existing bookings.
	days := utils.RentalDays(start, end)
	if days > maxRentalDays {
		return nil, domain.NewValidationError("end_date", fmt.Sprintf("rental may not exceed %d days", maxRentalDays))
	}
	cost := int64(days) * int64(car.PricePerDayCents)
	if cost > math.MaxInt32 {
		return nil, domain.NewValidationError("end_date", "total cost exceeds the supported maximum")
	}
	booking := &domain.Booking{
		CarID:          carID,
		UserID:         p.UserID,
		StartDate:      start,
		EndDate:        end,
		TotalCostCents: int32(cost),
	}

	note := s.confirmationNote(ctx, p.UserID, car, booking, days)

	if err := s.bookingRepo.CreateIfAvailable(ctx, booking, note); err != nil {
		return nil, err
	}

	logger.Info("Booking created",
		"booking_id", booking.ID, "car_id", carID, "user_id", p.UserID,
		"days", days, "total_cost_cents", booking.TotalCostCents)
	return booking, nil
}

// confirmationNote builds the outbox row announcing a new booking. It is
// best-effort end to end: a missing user profile just means no notification.
func (s *bookingService) confirmationNote(ctx context.Context, userID int32, car *domain.Car, b *domain.Booking, days int32) *domain.Notification {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Skipping booking notification, user lookup failed", "user_id", userID, "error", err)
		return nil
	}

	body := fmt.Sprintf(
		"New car booking confirmation\n\nCar: %s\nStart date: %s\nEnd date: %s\nDays: %d\nTotal cost: $%.2f\n\nCustomer: %s\nPhone: %s\n\nThank you for choosing DriveSmart!",
		car.Name, utils.FormatDate(b.StartDate), utils.FormatDate(b.EndDate), days,
		float64(b.TotalCostCents)/100, user.Name, user.Phone)

	note := &domain.Notification{
		Key:     uuid.New().String(),
		Subject: "Booking confirmation: " + car.Name,
		Body:    body,
	}
	addressNote(note, user)
	return note
}

// addressNote picks the delivery channel: WhatsApp when the user has a phone
// number on file, email otherwise.
func addressNote(note *domain.Notification, user *domain.User) {
	if user.Phone != "" {
		note.Channel = domain.NotificationChannelWhatsApp
		note.Recipient = user.Phone
	} else {
		note.Channel = domain.NotificationChannelEmail
		note.Recipient = user.Email
	}
}

// notifyStatusChange enqueues an outbox row telling the customer their
// booking moved. Best-effort: a failure is logged and never surfaces to the
// company performing the transition.
func (s *bookingService) notifyStatusChange(ctx context.Context, b *domain.Booking, newStatus domain.BookingStatus) {
	user, err := s.userRepo.GetByID(ctx, b.UserID)
	if err != nil {
		logger.Warn("Skipping status notification, user lookup failed", "user_id", b.UserID, "error", err)
		return
	}

	note := &domain.Notification{
		Key:     uuid.New().String(),
		Subject: fmt.Sprintf("Booking #%d %s", b.ID, newStatus),
		Body: fmt.Sprintf("Your booking #%d (%s to %s) is now %s.",
			b.ID, utils.FormatDate(b.StartDate), utils.FormatDate(b.EndDate), newStatus),
	}
	addressNote(note, user)
	if err := s.notificationRepo.Enqueue(ctx, note); err != nil {
		logger.Warn("Failed to enqueue status notification", "booking_id", b.ID, "error", err)
	}
}

func (s *bookingService) Get(ctx context.Context, p security.Principal, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !s.mayView(p, b) {
		return nil, domain.ErrPermissionDenied
	}
	return b, nil
}

func (s *bookingService) mayView(p security.Principal, b *domain.Booking) bool {
	if p.IsAdmin() {
		return true
	}
	if p.IsCompany() && b.CompanyID == p.UserID {
		return true
	}
	return b.UserID == p.UserID
}

func (s *bookingService) Cancel(ctx context.Context, p security.Principal, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ownsAsCustomer := p.IsCustomer() && b.UserID == p.UserID
	ownsAsCompany := p.IsCompany() && b.CompanyID == p.UserID
	if !ownsAsCustomer && !ownsAsCompany {
		return nil, domain.ErrPermissionDenied
	}

	if !domain.CanTransition(b.Status, domain.BookingStatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, b.Status, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatusCancelled
	logger.Info("Booking cancelled", "booking_id", bookingID, "by_user", p.UserID)
	return b, nil
}

func (s *bookingService) RecordPayment(ctx context.Context, p security.Principal, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !p.IsCustomer() || b.UserID != p.UserID {
		return nil, domain.ErrPermissionDenied
	}
	// Payment is accepted while the booking is awaiting or already holding
	// company confirmation, but only once.
	if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusConfirmed {
		return nil, domain.ErrInvalidTransition
	}
	if b.PaymentStatus == domain.PaymentStatusCompleted {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.bookingRepo.RecordPayment(ctx, bookingID, b.Status); err != nil {
		return nil, err
	}

	b.PaymentStatus = domain.PaymentStatusCompleted
	logger.Info("Booking payment recorded", "booking_id", bookingID)
	return b, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, p security.Principal, bookingID int32, newStatus domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !p.IsCompany() || b.CompanyID != p.UserID {
		return nil, domain.ErrPermissionDenied
	}

	// Only the forward edges of the state machine; repeating the current
	// status or leaving a terminal state is rejected, never double-applied.
	if !domain.CanTransition(b.Status, newStatus) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, b.Status, newStatus); err != nil {
		return nil, err
	}

	b.Status = newStatus
	s.notifyStatusChange(ctx, b, newStatus)
	logger.Info("Booking status updated", "booking_id", bookingID, "status", newStatus)
	return b, nil
}

func (s *bookingService) Rate(ctx context.Context, p security.Principal, bookingID int32, rating int32, comment string) (float64, error) {
	if rating < 1 || rating > 5 {
		return 0, domain.NewValidationError("rating", "must be between 1 and 5")
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if !p.IsCustomer() || b.UserID != p.UserID {
		return 0, domain.ErrPermissionDenied
	}
	if b.Status != domain.BookingStatusCompleted {
		return 0, domain.ErrInvalidTransition
	}
	if b.Rating != nil {
		return 0, domain.ErrAlreadyRated
	}

	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return 0, err
	}

	review := &domain.Review{
		UserID:   p.UserID,
		UserName: user.Name,
		Rating:   rating,
		Comment:  comment,
	}
	average, err := s.bookingRepo.RateAndReview(ctx, bookingID, review)
	if err != nil {
		return 0, err
	}

	logger.Info("Booking rated", "booking_id", bookingID, "rating", rating, "car_average", average)
	return average, nil
}

func (s *bookingService) ListForUser(ctx context.Context, p security.Principal, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByUser(ctx, p.UserID, status, page, pageSize)
}

func (s *bookingService) ListForCompany(ctx context.Context, p security.Principal, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if !p.IsCompany() {
		return nil, 0, domain.ErrPermissionDenied
	}
	return s.bookingRepo.ListByCompany(ctx, p.UserID, status, page, pageSize)
}
