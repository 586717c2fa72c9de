package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, company_id, name, manufacturer, category, price_per_day_cents, COALESCE(fuel_efficiency, ''), images, documents, is_available, latitude, longitude, features, average_rating, created_on, updated_on`

func scanCar(row interface{ Scan(...any) error }) (*domain.Car, error) {
	c := &domain.Car{}
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Manufacturer, &c.Category, &c.PricePerDayCents,
		&c.FuelEfficiency, pq.Array(&c.Images), pq.Array(&c.Documents), &c.IsAvailable,
		&c.Location.Lat, &c.Location.Lng, pq.Array(&c.Features), &c.AverageRating, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (company_id, name, manufacturer, category, price_per_day_cents, fuel_efficiency, images, documents, is_available, latitude, longitude, features, average_rating, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $10, $11, 0, $12, $12) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.CompanyID, c.Name, c.Manufacturer, c.Category, c.PricePerDayCents,
		c.FuelEfficiency, pq.Array(c.Images), pq.Array(c.Documents), c.Location.Lat, c.Location.Lng,
		pq.Array(c.Features), time.Now()).Scan(&c.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	c, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET name=$1, manufacturer=$2, category=$3, price_per_day_cents=$4, fuel_efficiency=$5, latitude=$6, longitude=$7, features=$8, updated_on=$9 WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, c.Name, c.Manufacturer, c.Category, c.PricePerDayCents,
		c.FuelEfficiency, c.Location.Lat, c.Location.Lng, pq.Array(c.Features), time.Now(), c.ID)
	return err
}

func (r *carRepository) AppendMedia(ctx context.Context, carID int32, images, documents []string) error {
	if len(images) == 0 && len(documents) == 0 {
		return nil
	}
	query := `UPDATE cars SET images = images || $1, documents = documents || $2, updated_on = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, pq.Array(images), pq.Array(documents), time.Now(), carID)
	return err
}

func (r *carRepository) SetAvailability(ctx context.Context, carID int32, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cars SET is_available=$1, updated_on=$2 WHERE id=$3`, available, time.Now(), carID)
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

func (r *carRepository) ListAvailable(ctx context.Context, f domain.CarFilter) ([]domain.Car, int32, error) {
	// Only cars of verified companies ever surface publicly.
	base := `FROM cars c JOIN companies co ON co.id = c.company_id
	         WHERE c.is_available = TRUE AND co.is_verified = TRUE`

	args := []interface{}{}
	argIdx := 1
	if f.Category != "" {
		base += fmt.Sprintf(" AND c.category = $%d", argIdx)
		args = append(args, f.Category)
		argIdx++
	}
	if f.Manufacturer != "" {
		base += fmt.Sprintf(" AND c.manufacturer ILIKE $%d", argIdx)
		args = append(args, f.Manufacturer)
		argIdx++
	}
	if f.MinPriceCents > 0 {
		base += fmt.Sprintf(" AND c.price_per_day_cents >= $%d", argIdx)
		args = append(args, f.MinPriceCents)
		argIdx++
	}
	if f.MaxPriceCents > 0 {
		base += fmt.Sprintf(" AND c.price_per_day_cents <= $%d", argIdx)
		args = append(args, f.MaxPriceCents)
		argIdx++
	}
	if f.Search != "" {
		base += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.manufacturer ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY c.created_on DESC"
	switch f.SortBy {
	case domain.CarSortPriceAsc:
		order = " ORDER BY c.price_per_day_cents ASC"
	case domain.CarSortPriceDesc:
		order = " ORDER BY c.price_per_day_cents DESC"
	case domain.CarSortRating:
		order = " ORDER BY c.average_rating DESC"
	}

	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query := fmt.Sprintf("SELECT %s %s%s LIMIT $%d OFFSET $%d",
		prefixCarColumns("c"), base, order, argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) ListByCompany(ctx context.Context, companyID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars WHERE company_id = $1`, companyID).Scan(&count); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	query := `SELECT ` + carColumns + ` FROM cars WHERE company_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) GetReviews(ctx context.Context, carID int32) ([]domain.Review, error) {
	query := `SELECT id, car_id, user_id, user_name, rating, COALESCE(comment, ''), created_on FROM reviews WHERE car_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.CarID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedOn); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *carRepository) ReconcileAvailability(ctx context.Context) (int64, error) {
	// Cache repair: recompute the flag from the occupying-booking definition.
	// Any non-cancelled booking occupies its car once it is paid or its window
	// has started, until the window ends. Completed bookings keep holding the
	// car through the rest of their window.
	query := `UPDATE cars SET is_available = NOT EXISTS (
	            SELECT 1 FROM bookings b
	            WHERE b.car_id = cars.id
	              AND b.status <> 'cancelled'
	              AND b.end_date >= CURRENT_DATE
	              AND (b.start_date <= CURRENT_DATE OR b.payment_status = 'completed')
	          ), updated_on = NOW()
	          WHERE is_available <> NOT EXISTS (
	            SELECT 1 FROM bookings b
	            WHERE b.car_id = cars.id
	              AND b.status <> 'cancelled'
	              AND b.end_date >= CURRENT_DATE
	              AND (b.start_date <= CURRENT_DATE OR b.payment_status = 'completed')
	          )`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// prefixCarColumns qualifies the shared column list with a table alias for
// joined queries.
func prefixCarColumns(alias string) string {
	return alias + `.id, ` + alias + `.company_id, ` + alias + `.name, ` + alias + `.manufacturer, ` + alias + `.category, ` +
		alias + `.price_per_day_cents, COALESCE(` + alias + `.fuel_efficiency, ''), ` + alias + `.images, ` + alias + `.documents, ` +
		alias + `.is_available, ` + alias + `.latitude, ` + alias + `.longitude, ` + alias + `.features, ` + alias + `.average_rating, ` +
		alias + `.created_on, ` + alias + `.updated_on`
}
