package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, car_id, user_id, company_id, start_date, end_date, total_cost_cents, status, payment_status, rating, created_on`

// refreshCarAvailability recomputes the cached flag for one car from the
// occupying-booking definition, inside the caller's transaction.
func refreshCarAvailability(ctx context.Context, tx *sql.Tx, carID int32) error {
	query := `UPDATE cars SET is_available = NOT EXISTS (
	            SELECT 1 FROM bookings b
	            WHERE b.car_id = cars.id
	              AND b.status <> 'cancelled'
	              AND b.end_date >= CURRENT_DATE
	              AND (b.start_date <= CURRENT_DATE OR b.payment_status = 'completed')
	          ), updated_on = NOW() WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, carID)
	return err
}

func (r *bookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking, note *domain.Notification) error {
	return withTxRetry(ctx, r.db, func(tx *sql.Tx) error {
		// Lock the car row: booking creation, payment, cancellation and
		// rating all serialize on it, so concurrent creates cannot both
		// pass the checks below.
		var available bool
		var companyID int32
		err := tx.QueryRowContext(ctx,
			`SELECT is_available, company_id FROM cars WHERE id = $1 FOR UPDATE`, b.CarID).
			Scan(&available, &companyID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !available {
			return domain.ErrCarUnavailable
		}

		// Interval-overlap check against every non-cancelled booking for the
		// car, both endpoints inclusive. The boolean above is only a cache;
		// this query is the gate.
		var overlaps bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (
			   SELECT 1 FROM bookings
			   WHERE car_id = $1 AND status <> 'cancelled'
			     AND start_date <= $3 AND end_date >= $2
			 )`, b.CarID, b.StartDate, b.EndDate).Scan(&overlaps)
		if err != nil {
			return err
		}
		if overlaps {
			return domain.ErrCarUnavailable
		}

		b.CompanyID = companyID
		b.Status = domain.BookingStatusPending
		b.PaymentStatus = domain.PaymentStatusPending
		b.CreatedOn = time.Now()
		err = tx.QueryRowContext(ctx,
			`INSERT INTO bookings (car_id, user_id, company_id, start_date, end_date, total_cost_cents, status, payment_status, created_on)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			b.CarID, b.UserID, b.CompanyID, b.StartDate, b.EndDate, b.TotalCostCents, b.Status, b.PaymentStatus, b.CreatedOn).
			Scan(&b.ID)
		if err != nil {
			return err
		}

		if err := refreshCarAvailability(ctx, tx, b.CarID); err != nil {
			return err
		}

		// Confirmation goes through the outbox in the same transaction;
		// delivery happens asynchronously and can never fail the booking.
		if note != nil {
			return enqueueNotificationTx(ctx, tx, note)
		}
		return nil
	})
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.CarID, &b.UserID, &b.CompanyID,
		&b.StartDate, &b.EndDate, &b.TotalCostCents, &b.Status, &b.PaymentStatus, &b.Rating, &b.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	return withTxRetry(ctx, r.db, func(tx *sql.Tx) error {
		var carID, companyID, costCents int32
		err := tx.QueryRowContext(ctx,
			`SELECT car_id, company_id, total_cost_cents FROM bookings WHERE id = $1 FOR UPDATE`, id).
			Scan(&carID, &companyID, &costCents)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		// Conditional write: a concurrent transition that already moved the
		// row off `from` makes this a zero-row update.
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrInvalidTransition
		}

		// Completion feeds the company's cached dashboard counters. The
		// reporting queries never trust these; they recompute from bookings.
		if to == domain.BookingStatusCompleted {
			_, err = tx.ExecContext(ctx,
				`UPDATE companies SET total_bookings = total_bookings + 1, total_earnings_cents = total_earnings_cents + $1 WHERE id = $2`,
				costCents, companyID)
			if err != nil {
				return err
			}
		}

		return refreshCarAvailability(ctx, tx, carID)
	})
}

func (r *bookingRepository) RecordPayment(ctx context.Context, id int32, status domain.BookingStatus) error {
	return withTxRetry(ctx, r.db, func(tx *sql.Tx) error {
		var carID int32
		err := tx.QueryRowContext(ctx, `SELECT car_id FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&carID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET payment_status = $1 WHERE id = $2 AND status = $3 AND payment_status = $4`,
			domain.PaymentStatusCompleted, id, status, domain.PaymentStatusPending)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrInvalidTransition
		}

		// A paid booking holds the car from the moment of payment, ahead of
		// the rental window.
		_, err = tx.ExecContext(ctx, `UPDATE cars SET is_available = FALSE, updated_on = NOW() WHERE id = $1`, carID)
		return err
	})
}

func (r *bookingRepository) RateAndReview(ctx context.Context, bookingID int32, review *domain.Review) (float64, error) {
	var average float64
	err := withTxRetry(ctx, r.db, func(tx *sql.Tx) error {
		var status domain.BookingStatus
		var rating sql.NullInt32
		var carID int32
		err := tx.QueryRowContext(ctx,
			`SELECT car_id, status, rating FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).
			Scan(&carID, &status, &rating)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if status != domain.BookingStatusCompleted {
			return domain.ErrInvalidTransition
		}
		if rating.Valid {
			return domain.ErrAlreadyRated
		}

		// Serialize average recomputation per car.
		if _, err := tx.ExecContext(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID); err != nil {
			return err
		}

		review.CarID = carID
		review.CreatedOn = time.Now()
		// One review per (car, user); a conflict means the user already
		// reviewed this car through another booking.
		var reviewID int32
		err = tx.QueryRowContext(ctx,
			`INSERT INTO reviews (car_id, user_id, user_name, rating, comment, created_on)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (car_id, user_id) DO NOTHING RETURNING id`,
			review.CarID, review.UserID, review.UserName, review.Rating, review.Comment, review.CreatedOn).
			Scan(&reviewID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAlreadyRated
		}
		if err != nil {
			return err
		}
		review.ID = reviewID

		if _, err := tx.ExecContext(ctx,
			`UPDATE bookings SET rating = $1 WHERE id = $2`, review.Rating, bookingID); err != nil {
			return err
		}

		// Plain arithmetic mean over all reviews for the car.
		return tx.QueryRowContext(ctx,
			`UPDATE cars SET average_rating = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE car_id = $1), 0), updated_on = NOW()
			 WHERE id = $1 RETURNING average_rating`, carID).Scan(&average)
	})
	return average, err
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "user_id", userID, status, page, pageSize)
}

func (r *bookingRepository) ListByCompany(ctx context.Context, companyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "company_id", companyID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, ownerColumn string, ownerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	base := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + ownerColumn + ` = $1`
	args := []interface{}{ownerID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + base + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query := base + fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.CarID, &b.UserID, &b.CompanyID, &b.StartDate, &b.EndDate,
			&b.TotalCostCents, &b.Status, &b.PaymentStatus, &b.Rating, &b.CreatedOn); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListElapsedUnpaid(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE status = 'pending' AND payment_status = 'pending' AND end_date < CURRENT_DATE
	          ORDER BY end_date ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.CarID, &b.UserID, &b.CompanyID, &b.StartDate, &b.EndDate,
			&b.TotalCostCents, &b.Status, &b.PaymentStatus, &b.Rating, &b.CreatedOn); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
