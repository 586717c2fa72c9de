package service

import (
	"context"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
)

type catalogService struct {
	carRepo     repository.CarRepository
	companyRepo repository.CompanyRepository
}

func NewCatalogService(carRepo repository.CarRepository, companyRepo repository.CompanyRepository) CatalogService {
	return &catalogService{carRepo: carRepo, companyRepo: companyRepo}
}

func (s *catalogService) ListAvailable(ctx context.Context, filter domain.CarFilter) ([]domain.Car, int32, error) {
	if filter.Category != "" && !domain.ValidCarCategory(filter.Category) {
		return nil, 0, domain.NewValidationError("category", "unknown car category")
	}
	if filter.MinPriceCents < 0 || filter.MaxPriceCents < 0 {
		return nil, 0, domain.NewValidationError("price", "must not be negative")
	}
	if filter.MaxPriceCents > 0 && filter.MinPriceCents > filter.MaxPriceCents {
		return nil, 0, domain.NewValidationError("price", "min price exceeds max price")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.carRepo.ListAvailable(ctx, filter)
}

func (s *catalogService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.carRepo.GetReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	car.Reviews = reviews
	return car, nil
}

func (s *catalogService) AddCar(ctx context.Context, p security.Principal, car *domain.Car) error {
	if !p.IsCompany() {
		return domain.ErrPermissionDenied
	}
	if !p.CompanyVerified {
		return domain.ErrCompanyNotVerified
	}
	if err := validateCar(car); err != nil {
		return err
	}

	car.CompanyID = p.UserID
	if err := s.carRepo.Create(ctx, car); err != nil {
		return err
	}

	logger.Info("Car listed", "car_id", car.ID, "company_id", p.UserID, "name", car.Name)
	return nil
}

func validateCar(car *domain.Car) error {
	if car.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if car.Manufacturer == "" {
		return domain.NewValidationError("manufacturer", "is required")
	}
	if !domain.ValidCarCategory(car.Category) {
		return domain.NewValidationError("category", "unknown car category")
	}
	if car.PricePerDayCents <= 0 {
		return domain.NewValidationError("price_per_day_cents", "must be positive")
	}
	if car.FuelEfficiency == "" {
		return domain.NewValidationError("fuel_efficiency", "is required")
	}
	if car.Location.Lat == 0 && car.Location.Lng == 0 {
		return domain.NewValidationError("location", "is required")
	}
	if len(car.Features) == 0 {
		return domain.NewValidationError("features", "at least one is required")
	}
	return nil
}

func (s *catalogService) UpdateCar(ctx context.Context, p security.Principal, carID int32, patch domain.CarPatch) (*domain.Car, error) {
	car, err := s.ownedCar(ctx, p, carID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		car.Name = *patch.Name
	}
	if patch.Manufacturer != nil {
		car.Manufacturer = *patch.Manufacturer
	}
	if patch.Category != nil {
		if !domain.ValidCarCategory(*patch.Category) {
			return nil, domain.NewValidationError("category", "unknown car category")
		}
		car.Category = *patch.Category
	}
	if patch.PricePerDayCents != nil {
		if *patch.PricePerDayCents <= 0 {
			return nil, domain.NewValidationError("price_per_day_cents", "must be positive")
		}
		// Existing bookings keep their snapshotted cost.
		car.PricePerDayCents = *patch.PricePerDayCents
	}
	if patch.FuelEfficiency != nil {
		car.FuelEfficiency = *patch.FuelEfficiency
	}
	if patch.Location != nil {
		car.Location = *patch.Location
	}
	if patch.Features != nil {
		car.Features = patch.Features
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}

	if len(patch.Images) > 0 || len(patch.Documents) > 0 {
		if err := s.carRepo.AppendMedia(ctx, carID, patch.Images, patch.Documents); err != nil {
			return nil, err
		}
		car.Images = append(car.Images, patch.Images...)
		car.Documents = append(car.Documents, patch.Documents...)
	}

	logger.Info("Car updated", "car_id", carID, "company_id", p.UserID)
	return car, nil
}

func (s *catalogService) SetAvailability(ctx context.Context, p security.Principal, carID int32, available bool) error {
	if _, err := s.ownedCar(ctx, p, carID); err != nil {
		return err
	}
	return s.carRepo.SetAvailability(ctx, carID, available)
}

func (s *catalogService) ListCompanyCars(ctx context.Context, p security.Principal, page, pageSize int32) ([]domain.Car, int32, error) {
	if !p.IsCompany() {
		return nil, 0, domain.ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.carRepo.ListByCompany(ctx, p.UserID, page, pageSize)
}

func (s *catalogService) ownedCar(ctx context.Context, p security.Principal, carID int32) (*domain.Car, error) {
	if !p.IsCompany() {
		return nil, domain.ErrPermissionDenied
	}
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.CompanyID != p.UserID {
		return nil, domain.ErrPermissionDenied
	}
	return car, nil
}
