package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
)

const txAttempts = 3

// withTxRetry runs fn inside its own transaction, retrying serialization and
// deadlock failures with a short backoff. Deadline expiry surfaces as a
// timeout-kind UpstreamError so callers can report it distinctly.
func withTxRetry(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = runTx(ctx, db, fn)
		if err == nil || !retryable(err) {
			break
		}
		logger.Warn("Retrying transaction", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return &domain.UpstreamError{System: "postgres", Timeout: true, Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.UpstreamError{System: "postgres", Timeout: true, Err: err}
	}
	return err
}

func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func retryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure, deadlock_detected
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
