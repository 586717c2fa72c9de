package postgres

import (
	"context"
	"database/sql"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) sumByStatuses(ctx context.Context, companyID int32, statuses string) (int64, error) {
	query := `SELECT COALESCE(SUM(total_cost_cents), 0) FROM bookings WHERE status IN (` + statuses + `)`
	args := []interface{}{}
	if companyID != 0 {
		query += ` AND company_id = $1`
		args = append(args, companyID)
	}
	var total int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *reportRepository) TotalEarnings(ctx context.Context, companyID int32) (int64, error) {
	return r.sumByStatuses(ctx, companyID, `'completed'`)
}

func (r *reportRepository) PendingEarnings(ctx context.Context, companyID int32) (int64, error) {
	return r.sumByStatuses(ctx, companyID, `'pending', 'confirmed'`)
}

func (r *reportRepository) ActiveBookingCount(ctx context.Context, companyID int32) (int32, error) {
	query := `SELECT count(*) FROM bookings
	          WHERE status <> 'cancelled' AND start_date <= CURRENT_DATE AND end_date >= CURRENT_DATE`
	args := []interface{}{}
	if companyID != 0 {
		query += ` AND company_id = $1`
		args = append(args, companyID)
	}
	var count int32
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *reportRepository) CompanyEarnings(ctx context.Context) ([]domain.CompanyEarnings, error) {
	query := `SELECT co.id, co.name,
	            COALESCE(SUM(b.total_cost_cents) FILTER (WHERE b.status = 'completed'), 0),
	            COALESCE(SUM(b.total_cost_cents) FILTER (WHERE b.status IN ('pending', 'confirmed')), 0),
	            COUNT(b.id) FILTER (WHERE b.status <> 'cancelled' AND b.start_date <= CURRENT_DATE AND b.end_date >= CURRENT_DATE)
	          FROM companies co
	          LEFT JOIN bookings b ON b.company_id = co.id
	          GROUP BY co.id, co.name
	          ORDER BY 3 DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CompanyEarnings
	for rows.Next() {
		var ce domain.CompanyEarnings
		if err := rows.Scan(&ce.CompanyID, &ce.CompanyName, &ce.CompletedCents, &ce.PendingCents, &ce.ActiveBookingCount); err != nil {
			return nil, err
		}
		out = append(out, ce)
	}
	return out, rows.Err()
}
