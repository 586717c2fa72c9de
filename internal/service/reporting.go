package service

import (
	"context"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
)

type reportingService struct {
	reportRepo  repository.ReportRepository
	companyRepo repository.CompanyRepository
	feePercent  float64
}

// NewReportingService builds the reporting service. feePercent is the
// platform's cut of completed earnings, e.g. 10 for ten percent.
func NewReportingService(reportRepo repository.ReportRepository, companyRepo repository.CompanyRepository, feePercent float64) ReportingService {
	return &reportingService{reportRepo: reportRepo, companyRepo: companyRepo, feePercent: feePercent}
}

func (s *reportingService) CompanyDashboard(ctx context.Context, p security.Principal) (*domain.CompanyEarnings, error) {
	if !p.IsCompany() {
		return nil, domain.ErrPermissionDenied
	}

	company, err := s.companyRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	completed, err := s.reportRepo.TotalEarnings(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	pending, err := s.reportRepo.PendingEarnings(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	active, err := s.reportRepo.ActiveBookingCount(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.CompanyEarnings{
		CompanyID:          p.UserID,
		CompanyName:        company.Name,
		CompletedCents:     completed,
		PendingCents:       pending,
		ActiveBookingCount: active,
	}, nil
}

func (s *reportingService) PlatformSummary(ctx context.Context, p security.Principal) (*domain.PlatformSummary, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}

	total, err := s.reportRepo.TotalEarnings(ctx, 0)
	if err != nil {
		return nil, err
	}
	pending, err := s.reportRepo.PendingEarnings(ctx, 0)
	if err != nil {
		return nil, err
	}
	active, err := s.reportRepo.ActiveBookingCount(ctx, 0)
	if err != nil {
		return nil, err
	}
	companies, err := s.reportRepo.CompanyEarnings(ctx)
	if err != nil {
		return nil, err
	}

	// The fee accrues on completed earnings only; pending money is not the
	// platform's yet.
	fee := int64(float64(total) * s.feePercent / 100)

	return &domain.PlatformSummary{
		TotalEarningsCents:   total,
		PendingEarningsCents: pending,
		PlatformFeeCents:     fee,
		ActiveBookingCount:   active,
		Companies:            companies,
	}, nil
}
