package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type companyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `id, name, email, COALESCE(phone, ''), COALESCE(address, ''), documents, is_verified, COALESCE(rating, 0), total_bookings, total_earnings_cents, created_on`

func (r *companyRepository) Create(ctx context.Context, c *domain.Company) error {
	// is_verified starts NULL: pending admin review.
	query := `INSERT INTO companies (id, name, email, phone, address, documents, is_verified, rating, total_bookings, total_earnings_cents, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, NULL, 0, 0, 0, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address, pq.Array(c.Documents), time.Now())
	return err
}

func (r *companyRepository) GetByID(ctx context.Context, id int32) (*domain.Company, error) {
	c := &domain.Company{}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, pq.Array(&c.Documents), &c.IsVerified, &c.Rating, &c.TotalBookings, &c.TotalEarningsCents, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, pq.Array(&c.Documents), &c.IsVerified, &c.Rating, &c.TotalBookings, &c.TotalEarningsCents, &c.CreatedOn); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *companyRepository) Update(ctx context.Context, c *domain.Company) error {
	query := `UPDATE companies SET name=$1, phone=$2, address=$3, documents=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Address, pq.Array(c.Documents), c.ID)
	return err
}

func (r *companyRepository) SetVerification(ctx context.Context, id int32, verified *bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE companies SET is_verified=$1 WHERE id=$2`, verified, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
