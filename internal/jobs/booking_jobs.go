package jobs

import (
	"context"
	"time"

	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/utils"
)

const jobTimeout = 5 * time.Minute

// ReconcileAvailability recomputes every car's cached availability flag from
// the booking set. Transactions keep the flag consistent inline; this run
// repairs any drift, most commonly cars whose last booking window lapsed
// overnight.
func (jr *JobRunner) ReconcileAvailability() {
	jr.runWithRecovery("ReconcileAvailability", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		changed, err := jr.store.CarRepository.ReconcileAvailability(ctx)
		if err != nil {
			logger.Error("Failed to reconcile car availability", "error", err)
			return
		}
		logger.Info("Car availability reconciled", "cars_changed", changed)
	})
}

// DispatchOutbox drains one batch of pending notifications.
func (jr *JobRunner) DispatchOutbox() {
	jr.runWithRecovery("DispatchOutbox", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		sent, failed, err := jr.outbox.DispatchPending(ctx)
		if err != nil {
			logger.Error("Failed to dispatch outbox", "error", err)
			return
		}
		if failed > 0 {
			logger.Warn("Outbox dispatch had failures", "sent", sent, "failed", failed)
		}
	})
}

// ReportElapsedUnpaid logs pending bookings whose rental window fully passed
// without payment, so operations can follow up or cancel them.
func (jr *JobRunner) ReportElapsedUnpaid() {
	jr.runWithRecovery("ReportElapsedUnpaid", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		bookings, err := jr.store.BookingRepository.ListElapsedUnpaid(ctx)
		if err != nil {
			logger.Error("Failed to list elapsed unpaid bookings", "error", err)
			return
		}

		for _, b := range bookings {
			logger.Warn("Booking window elapsed without payment",
				"booking_id", b.ID, "user_id", b.UserID, "car_id", b.CarID,
				"end_date", utils.FormatDate(b.EndDate), "total_cost_cents", b.TotalCostCents)
		}
		logger.Info("Elapsed unpaid bookings reported", "count", len(bookings))
	})
}
