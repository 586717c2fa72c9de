package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository/postgres"
)

func TestBookingRepository_CreateIfAvailable(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		b := &domain.Booking{CarID: 5, UserID: 1, StartDate: start, EndDate: end, TotalCostCents: 15000}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT is_available, company_id FROM cars").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"is_available", "company_id"}).AddRow(true, 10))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(5), start, end).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(int32(5), int32(1), int32(10), start, end, int32(15000),
				domain.BookingStatusPending, domain.PaymentStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(`(?s)UPDATE cars SET is_available = NOT EXISTS.*b\.status <> 'cancelled'`).
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.CreateIfAvailable(ctx, b, nil)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), b.ID)
		assert.Equal(t, int32(10), b.CompanyID)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EnqueuesNotificationInSameTx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		b := &domain.Booking{CarID: 5, UserID: 1, StartDate: start, EndDate: end, TotalCostCents: 15000}
		note := &domain.Notification{
			Key: "11111111-2222-3333-4444-555555555555", Recipient: "alice@test.com",
			Channel: domain.NotificationChannelEmail, Subject: "s", Body: "b",
		}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT is_available, company_id FROM cars").
			WillReturnRows(sqlmock.NewRows([]string{"is_available", "company_id"}).AddRow(true, 10))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("UPDATE cars SET is_available = NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO notification_outbox").
			WithArgs(note.Key, note.Recipient, note.Channel, note.Subject, note.Body,
				domain.NotificationStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectCommit()

		err = repo.CreateIfAvailable(ctx, b, note)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OverlapLosesRace", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		b := &domain.Booking{CarID: 5, UserID: 1, StartDate: start, EndDate: end}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT is_available, company_id FROM cars").
			WillReturnRows(sqlmock.NewRows([]string{"is_available", "company_id"}).AddRow(true, 10))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err = repo.CreateIfAvailable(ctx, b, nil)
		assert.ErrorIs(t, err, domain.ErrCarUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CachedFlagShortCircuits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		b := &domain.Booking{CarID: 5, UserID: 1, StartDate: start, EndDate: end}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT is_available, company_id FROM cars").
			WillReturnRows(sqlmock.NewRows([]string{"is_available", "company_id"}).AddRow(false, 10))
		mock.ExpectRollback()

		err = repo.CreateIfAvailable(ctx, b, nil)
		assert.ErrorIs(t, err, domain.ErrCarUnavailable)
	})

	t.Run("UnknownCar", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		b := &domain.Booking{CarID: 404, StartDate: start, EndDate: end}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT is_available, company_id FROM cars").
			WillReturnRows(sqlmock.NewRows([]string{"is_available", "company_id"}))
		mock.ExpectRollback()

		err = repo.CreateIfAvailable(ctx, b, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_RetriesSerializationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewBookingRepository(db)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	b := &domain.Booking{CarID: 5, UserID: 1, StartDate: start, EndDate: end, TotalCostCents: 15000}

	// First attempt loses to a concurrent transaction and aborts with a
	// serialization failure; the second attempt runs clean.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_available, company_id FROM cars").
		WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_available, company_id FROM cars").
		WillReturnRows(sqlmock.NewRows([]string{"is_available", "company_id"}).AddRow(true, 10))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectExec("UPDATE cars SET is_available = NOT EXISTS").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.CreateIfAvailable(context.Background(), b, nil)
	assert.NoError(t, err)
	assert.Equal(t, int32(8), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ConditionalWriteSucceeds", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, company_id, total_cost_cents FROM bookings").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "company_id", "total_cost_cents"}).AddRow(5, 10, 15000))
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(domain.BookingStatusConfirmed, int32(7), domain.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cars SET is_available = NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.UpdateStatus(ctx, 7, domain.BookingStatusPending, domain.BookingStatusConfirmed)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ZeroRowsMeansLostRace", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, company_id, total_cost_cents FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "company_id", "total_cost_cents"}).AddRow(5, 10, 15000))
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.UpdateStatus(ctx, 7, domain.BookingStatusPending, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("CompletionBumpsCompanyCounters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, company_id, total_cost_cents FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "company_id", "total_cost_cents"}).AddRow(5, 10, 15000))
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE companies SET total_bookings").
			WithArgs(int32(15000), int32(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cars SET is_available = NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.UpdateStatus(ctx, 7, domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("PaymentHoldsCar", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id FROM bookings").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(5))
		mock.ExpectExec("UPDATE bookings SET payment_status").
			WithArgs(domain.PaymentStatusCompleted, int32(7), domain.BookingStatusPending, domain.PaymentStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cars SET is_available = FALSE").
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.RecordPayment(ctx, 7, domain.BookingStatusPending)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyPaid", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"car_id"}).AddRow(5))
		mock.ExpectExec("UPDATE bookings SET payment_status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.RecordPayment(ctx, 7, domain.BookingStatusPending)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestBookingRepository_RateAndReview(t *testing.T) {
	ctx := context.Background()
	review := &domain.Review{UserID: 1, UserName: "Alice", Rating: 4, Comment: "clean car"}

	t.Run("InsertsReviewAndRecomputesAverage", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, status, rating FROM bookings").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "status", "rating"}).AddRow(5, "completed", nil))
		mock.ExpectExec("SELECT id FROM cars").
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs(int32(5), int32(1), "Alice", int32(4), "clean car", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec("UPDATE bookings SET rating").
			WithArgs(int32(4), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("UPDATE cars SET average_rating").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"average_rating"}).AddRow(4.5))
		mock.ExpectCommit()

		average, err := repo.RateAndReview(ctx, 7, review)
		assert.NoError(t, err)
		assert.Equal(t, 4.5, average)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BookingAlreadyRated", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, status, rating FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "status", "rating"}).AddRow(5, "completed", 5))
		mock.ExpectRollback()

		_, err = repo.RateAndReview(ctx, 7, review)
		assert.ErrorIs(t, err, domain.ErrAlreadyRated)
	})

	t.Run("DuplicateReviewForCar", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, status, rating FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "status", "rating"}).AddRow(5, "completed", nil))
		mock.ExpectExec("SELECT id FROM cars").
			WillReturnResult(sqlmock.NewResult(0, 1))
		// ON CONFLICT DO NOTHING returns no row when the user already
		// reviewed this car.
		mock.ExpectQuery("INSERT INTO reviews").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err = repo.RateAndReview(ctx, 7, review)
		assert.ErrorIs(t, err, domain.ErrAlreadyRated)
	})

	t.Run("NotCompleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT car_id, status, rating FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"car_id", "status", "rating"}).AddRow(5, "confirmed", nil))
		mock.ExpectRollback()

		_, err = repo.RateAndReview(ctx, 7, review)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
