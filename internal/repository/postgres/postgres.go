package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CompanyRepository
	repository.CarRepository
	repository.BookingRepository
	repository.NotificationRepository
	repository.ReportRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		CompanyRepository:      NewCompanyRepository(db),
		CarRepository:          NewCarRepository(db),
		BookingRepository:      NewBookingRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ReportRepository:       NewReportRepository(db),
	}
}
