package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
)

func TestReportingService_CompanyDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("DerivesFiguresFromBookings", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		companyRepo := new(MockCompanyRepo)
		svc := NewReportingService(reportRepo, companyRepo, 10)

		// Cached counters on the company row are stale on purpose; the
		// dashboard must not echo them.
		companyRepo.On("GetByID", ctx, int32(10)).
			Return(&domain.Company{ID: 10, Name: "Speedy", TotalEarningsCents: 999999}, nil).Once()
		reportRepo.On("TotalEarnings", ctx, int32(10)).Return(int64(50000), nil).Once()
		reportRepo.On("PendingEarnings", ctx, int32(10)).Return(int64(12000), nil).Once()
		reportRepo.On("ActiveBookingCount", ctx, int32(10)).Return(int32(3), nil).Once()

		d, err := svc.CompanyDashboard(ctx, company)
		assert.NoError(t, err)
		assert.Equal(t, int64(50000), d.CompletedCents)
		assert.Equal(t, int64(12000), d.PendingCents)
		assert.Equal(t, int32(3), d.ActiveBookingCount)
		assert.Equal(t, "Speedy", d.CompanyName)
	})

	t.Run("RejectsNonCompany", func(t *testing.T) {
		svc := NewReportingService(new(MockReportRepo), new(MockCompanyRepo), 10)
		_, err := svc.CompanyDashboard(ctx, customer)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestReportingService_PlatformSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("FeeOnCompletedOnly", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		svc := NewReportingService(reportRepo, new(MockCompanyRepo), 10)

		reportRepo.On("TotalEarnings", ctx, int32(0)).Return(int64(200000), nil).Once()
		reportRepo.On("PendingEarnings", ctx, int32(0)).Return(int64(999000), nil).Once()
		reportRepo.On("ActiveBookingCount", ctx, int32(0)).Return(int32(7), nil).Once()
		reportRepo.On("CompanyEarnings", ctx).
			Return([]domain.CompanyEarnings{{CompanyID: 10, CompletedCents: 200000}}, nil).Once()

		s, err := svc.PlatformSummary(ctx, admin)
		assert.NoError(t, err)
		// 10% of completed earnings; pending money contributes nothing.
		assert.Equal(t, int64(20000), s.PlatformFeeCents)
		assert.Equal(t, int64(200000), s.TotalEarningsCents)
		assert.Len(t, s.Companies, 1)
	})

	t.Run("RejectsNonAdmin", func(t *testing.T) {
		svc := NewReportingService(new(MockReportRepo), new(MockCompanyRepo), 10)
		_, err := svc.PlatformSummary(ctx, company)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestAdminService_SetCompanyVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesTriState", func(t *testing.T) {
		companyRepo := new(MockCompanyRepo)
		svc := NewAdminService(companyRepo)

		for _, state := range []*bool{boolPtr(true), boolPtr(false), nil} {
			companyRepo.On("GetByID", ctx, int32(10)).Return(&domain.Company{ID: 10}, nil).Once()
			companyRepo.On("SetVerification", ctx, int32(10), state).Return(nil).Once()
			assert.NoError(t, svc.SetCompanyVerification(ctx, admin, 10, state))
		}
		companyRepo.AssertExpectations(t)
	})

	t.Run("RejectsNonAdmin", func(t *testing.T) {
		svc := NewAdminService(new(MockCompanyRepo))
		err := svc.SetCompanyVerification(ctx, company, 10, boolPtr(true))
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("UnknownCompany", func(t *testing.T) {
		companyRepo := new(MockCompanyRepo)
		svc := NewAdminService(companyRepo)
		companyRepo.On("GetByID", ctx, int32(404)).Return(nil, domain.ErrNotFound).Once()

		err := svc.SetCompanyVerification(ctx, admin, 404, boolPtr(true))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
