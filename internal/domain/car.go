package domain

type CarCategory string

const (
	CarCategorySedan     CarCategory = "Sedan"
	CarCategorySUV       CarCategory = "SUV"
	CarCategoryHatchback CarCategory = "Hatchback"
	CarCategoryLuxury    CarCategory = "Luxury"
	CarCategorySports    CarCategory = "Sports"
	CarCategoryVan       CarCategory = "Van"
	CarCategoryPickup    CarCategory = "Pickup"
)

// CarCategories lists every category the catalog accepts, in display order.
var CarCategories = []CarCategory{
	CarCategorySedan,
	CarCategorySUV,
	CarCategoryHatchback,
	CarCategoryLuxury,
	CarCategorySports,
	CarCategoryVan,
	CarCategoryPickup,
}

func ValidCarCategory(c CarCategory) bool {
	for _, cat := range CarCategories {
		if cat == c {
			return true
		}
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Car is a listed vehicle. IsAvailable is a cached flag over the booking set;
// the booking repository refreshes it inside every transaction that can
// change which bookings are active for the car.
type Car struct {
	ID               int32       `json:"id"`
	CompanyID        int32       `json:"company_id"`
	Name             string      `json:"name"`
	Manufacturer     string      `json:"manufacturer"`
	Category         CarCategory `json:"category"`
	PricePerDayCents int32       `json:"price_per_day_cents"`
	FuelEfficiency   string      `json:"fuel_efficiency"`
	Images           []string    `json:"images"`
	Documents        []string    `json:"documents"`
	IsAvailable      bool        `json:"is_available"`
	Location         Location    `json:"location"`
	Features         []string    `json:"features"`
	AverageRating    float64     `json:"average_rating"`
	Reviews          []Review    `json:"reviews,omitempty"` // populated on detail fetch
	CreatedOn        string      `json:"created_on"`
	UpdatedOn        string      `json:"updated_on"`
}

// CarPatch carries the fields a company may edit on its own car. Nil means
// leave unchanged; Images and Documents are appended, never replaced.
type CarPatch struct {
	Name             *string      `json:"name,omitempty"`
	Manufacturer     *string      `json:"manufacturer,omitempty"`
	Category         *CarCategory `json:"category,omitempty"`
	PricePerDayCents *int32       `json:"price_per_day_cents,omitempty"`
	FuelEfficiency   *string      `json:"fuel_efficiency,omitempty"`
	Location         *Location    `json:"location,omitempty"`
	Features         []string     `json:"features,omitempty"`
	Images           []string     `json:"images,omitempty"`
	Documents        []string     `json:"documents,omitempty"`
}

// CarFilter narrows and orders public catalog listings.
type CarFilter struct {
	Category      CarCategory
	Manufacturer  string
	MinPriceCents int32
	MaxPriceCents int32
	Search        string
	SortBy        CarSort
	Page          int32
	PageSize      int32
}

type CarSort string

const (
	CarSortPriceAsc  CarSort = "price_asc"
	CarSortPriceDesc CarSort = "price_desc"
	CarSortRating    CarSort = "rating"
)
