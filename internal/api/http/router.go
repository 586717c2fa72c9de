package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Booking   *BookingHandler
	Admin     *AdminHandler
	Report    *ReportHandler
	Files     *FileHandler
	AuthGuard *AuthMiddleware
}

func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/signup", d.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/register-company", d.Auth.RegisterCompany).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", d.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", d.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/cars", d.Catalog.ListCars).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id:[0-9]+}", d.Catalog.GetCar).Methods(http.MethodGet)
	api.HandleFunc("/files/{kind}/{name}", d.Files.Download).Methods(http.MethodGet)

	// Any authenticated principal.
	authed := api.NewRoute().Subrouter()
	authed.Use(d.AuthGuard.Require)
	authed.HandleFunc("/bookings/{id:[0-9]+}", d.Booking.Get).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/cancel", d.Booking.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/files/{kind}", d.Files.Upload).Methods(http.MethodPost)

	// Customer routes.
	customer := api.NewRoute().Subrouter()
	customer.Use(d.AuthGuard.RequireRole(domain.RoleCustomer))
	customer.HandleFunc("/bookings", d.Booking.Create).Methods(http.MethodPost)
	customer.HandleFunc("/bookings", d.Booking.ListMine).Methods(http.MethodGet)
	customer.HandleFunc("/bookings/{id:[0-9]+}/pay", d.Booking.Pay).Methods(http.MethodPost)
	customer.HandleFunc("/bookings/{id:[0-9]+}/rate", d.Booking.Rate).Methods(http.MethodPost)

	// Company routes.
	company := api.PathPrefix("/company").Subrouter()
	company.Use(d.AuthGuard.RequireRole(domain.RoleCompany))
	company.HandleFunc("/cars", d.Catalog.AddCar).Methods(http.MethodPost)
	company.HandleFunc("/cars", d.Catalog.ListCompanyCars).Methods(http.MethodGet)
	company.HandleFunc("/cars/{id:[0-9]+}", d.Catalog.UpdateCar).Methods(http.MethodPatch)
	company.HandleFunc("/cars/{id:[0-9]+}/availability", d.Catalog.SetAvailability).Methods(http.MethodPut)
	company.HandleFunc("/bookings", d.Booking.ListForCompany).Methods(http.MethodGet)
	company.HandleFunc("/bookings/{id:[0-9]+}/status", d.Booking.UpdateStatus).Methods(http.MethodPut)
	company.HandleFunc("/dashboard", d.Report.CompanyDashboard).Methods(http.MethodGet)

	// Admin routes.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(d.AuthGuard.RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/companies", d.Admin.ListCompanies).Methods(http.MethodGet)
	admin.HandleFunc("/companies/{id:[0-9]+}/verification", d.Admin.SetCompanyVerification).Methods(http.MethodPut)
	admin.HandleFunc("/summary", d.Admin.PlatformSummary).Methods(http.MethodGet)

	return r
}
