package models

// RawRecord is one decoded object from the dataset JSON. Keys are not
// controlled by this project: canonical names, localized labels and
// scrape-tool class names all show up. A nil map stands for a null entry.
type RawRecord map[string]any

// Store is the canonical, normalized listing used by filtering, sorting
// and grouping. Stores are built once per load and never mutated.
type Store struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Rating   float64   `json:"rating"`
	Reviews  int       `json:"reviews"`
	Address  string    `json:"address"`
	Phone    string    `json:"phone"`
	MapURL   string    `json:"map_url"`
	ImageURL string    `json:"image_url"`
	District string    `json:"district"`
	Raw      RawRecord `json:"raw,omitempty"`
}

// SortKey selects the primary sort field.
type SortKey string

const (
	SortByRating  SortKey = "rating"
	SortByReviews SortKey = "reviews"
)

// AllDistricts is the district selector value that disables the district filter.
const AllDistricts = "all"

// Query carries the visitor's current filter and sort choices.
type Query struct {
	District  string
	MinRating float64
	Keyword   string
	SortBy    SortKey
}

// DistrictGroup is one district section of the grouped view.
type DistrictGroup struct {
	District   string
	Stores     []*Store
	Count      int
	AvgRating  float64
	AvgReviews float64
}

// Summary holds the global figures shown above the district sections.
type Summary struct {
	Count      int
	MaxRating  float64
	AvgReviews float64
}

// Card is what the presentation side needs to render one store with its
// three calls-to-action.
type Card struct {
	Store         *Store
	OrderURL      string
	DirectionsURL string
	CallURL       string
	CallEnabled   bool
}

// View is the result of one filter → sort → group pass.
type View struct {
	Query   Query
	Stores  []*Store
	Groups  []DistrictGroup
	Summary Summary
}

// InsightReport holds dataset-wide figures printed after convert/publish.
type InsightReport struct {
	TotalStores      int
	WithPhone        int
	AverageRating    float64
	MaxRating        float64
	AverageReviews   float64
	TopRated         []*Store
	StoresByDistrict map[string]int
}
