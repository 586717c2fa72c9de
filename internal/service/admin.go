package service

import (
	"context"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
)

type adminService struct {
	companyRepo repository.CompanyRepository
}

func NewAdminService(companyRepo repository.CompanyRepository) AdminService {
	return &adminService{companyRepo: companyRepo}
}

func (s *adminService) ListCompanies(ctx context.Context, p security.Principal) ([]domain.Company, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.companyRepo.List(ctx)
}

func (s *adminService) SetCompanyVerification(ctx context.Context, p security.Principal, companyID int32, verified *bool) error {
	if !p.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return err
	}
	if err := s.companyRepo.SetVerification(ctx, companyID, verified); err != nil {
		return err
	}

	state := "pending"
	if verified != nil {
		if *verified {
			state = "verified"
		} else {
			state = "disabled"
		}
	}
	logger.Info("Company verification updated", "company_id", companyID, "state", state, "admin_id", p.UserID)
	return nil
}
