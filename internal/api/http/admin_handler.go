package http

import (
	"net/http"

	"github.com/DaniyalGhauri/DriveSmart/internal/service"
)

type AdminHandler struct {
	adminService     service.AdminService
	reportingService service.ReportingService
}

func NewAdminHandler(adminService service.AdminService, reportingService service.ReportingService) *AdminHandler {
	return &AdminHandler{adminService: adminService, reportingService: reportingService}
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	companies, err := h.adminService.ListCompanies(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

type setVerificationRequest struct {
	// Verified is tri-state: true verifies, false disables, null returns
	// the company to pending review.
	Verified *bool `json:"verified"`
}

func (h *AdminHandler) SetCompanyVerification(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req setVerificationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.adminService.SetCompanyVerification(r.Context(), p, id, req.Verified); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AdminHandler) PlatformSummary(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	summary, err := h.reportingService.PlatformSummary(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type ReportHandler struct {
	reportingService service.ReportingService
}

func NewReportHandler(reportingService service.ReportingService) *ReportHandler {
	return &ReportHandler{reportingService: reportingService}
}

func (h *ReportHandler) CompanyDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	dashboard, err := h.reportingService.CompanyDashboard(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
