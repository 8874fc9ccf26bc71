package models

// SnapshotVersion tags the persisted snapshot schema.
const SnapshotVersion = "1.0"

// ExperienceSnapshot is the reduced experience record kept for offline viewing.
type ExperienceSnapshot struct {
	ExperienceID string    `json:"_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Prefecture   string    `json:"prefecture"`
	Categories   []string  `json:"categories"`
	Location     *GeoPoint `json:"location,omitempty"`
	Photo        string    `json:"photo"`
	Rating       float64   `json:"rating"`
	Address      string    `json:"address"`
}

type FavoriteSnapshot struct {
	FavoriteID string             `json:"_id"`
	Experience ExperienceSnapshot `json:"experience"`
}

// BoardSnapshot carries the original board fields plus the reduced favorites,
// insertion order preserved.
type BoardSnapshot struct {
	BoardID     string             `json:"_id"`
	Date        string             `json:"date,omitempty"`
	DailyBudget float64            `json:"daily_budget"`
	Favorites   []FavoriteSnapshot `json:"favorites"`
}

// ItinerarySnapshot is the denormalized, frozen-at-save-time copy of an
// itinerary persisted for offline access. It is always written whole; there
// is no field-level patching of a stored snapshot.
type ItinerarySnapshot struct {
	ItineraryID string          `json:"id"`
	Name        string          `json:"name"`
	TotalBudget float64         `json:"totalBudget"`
	TravelDays  int             `json:"travelDays"`
	StartDate   *string         `json:"startDate"`
	IsPrivate   bool            `json:"isPrivate"`
	Creator     string          `json:"creator"`
	Travelers   []Traveler      `json:"travelers"`
	Boards      []BoardSnapshot `json:"boards"`
	SavedAt     string          `json:"savedAt"`
	Version     string          `json:"version"`
}
