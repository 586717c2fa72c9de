package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCars is the public catalog endpoint; only cars of verified companies
// that are currently available appear.
func (h *CatalogHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CarFilter{
		Category:     domain.CarCategory(q.Get("category")),
		Manufacturer: q.Get("manufacturer"),
		Search:       q.Get("search"),
		SortBy:       domain.CarSort(q.Get("sort")),
		Page:         queryInt32(q.Get("page")),
		PageSize:     queryInt32(q.Get("page_size")),
	}
	filter.MinPriceCents = queryInt32(q.Get("min_price_cents"))
	filter.MaxPriceCents = queryInt32(q.Get("max_price_cents"))

	cars, total, err := h.catalogService.ListAvailable(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedBody{Items: cars, Total: total})
}

func (h *CatalogHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	car, err := h.catalogService.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

type addCarRequest struct {
	Name             string             `json:"name"`
	Manufacturer     string             `json:"manufacturer"`
	Category         domain.CarCategory `json:"category"`
	PricePerDayCents int32              `json:"price_per_day_cents"`
	FuelEfficiency   string             `json:"fuel_efficiency"`
	Images           []string           `json:"images"`
	Documents        []string           `json:"documents"`
	Location         domain.Location    `json:"location"`
	Features         []string           `json:"features"`
}

func (h *CatalogHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var req addCarRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	car := &domain.Car{
		Name:             req.Name,
		Manufacturer:     req.Manufacturer,
		Category:         req.Category,
		PricePerDayCents: req.PricePerDayCents,
		FuelEfficiency:   req.FuelEfficiency,
		Images:           req.Images,
		Documents:        req.Documents,
		Location:         req.Location,
		Features:         req.Features,
	}
	if err := h.catalogService.AddCar(r.Context(), p, car); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CatalogHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch domain.CarPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	car, err := h.catalogService.UpdateCar(r.Context(), p, id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (h *CatalogHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req setAvailabilityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogService.SetAvailability(r.Context(), p, id, req.Available); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListCompanyCars(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	q := r.URL.Query()

	cars, total, err := h.catalogService.ListCompanyCars(r.Context(), p, queryInt32(q.Get("page")), queryInt32(q.Get("page_size")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedBody{Items: cars, Total: total})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return int32(id), nil
}

func queryInt32(raw string) int32 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0
	}
	return int32(v)
}
