package models

import "time"

// Traveler links a user to an itinerary they can view or edit.
type Traveler struct {
	UserID string `json:"user_id" bson:"user_id"`
	Role   string `json:"role" bson:"role"` // viewer / editor
}

// Favorite marks an experience as planned for a board's day.
type Favorite struct {
	FavoriteID   string      `json:"_id" bson:"favoriteid"`
	ExperienceID string      `json:"experience_id" bson:"experience_id"`
	Experience   *Experience `json:"experience,omitempty" bson:"experience,omitempty"`
}

// Board is one day of an itinerary.
type Board struct {
	BoardID     string     `json:"_id" bson:"boardid"`
	Date        string     `json:"date,omitempty" bson:"date,omitempty"`
	DailyBudget float64    `json:"daily_budget" bson:"daily_budget"`
	Favorites   []Favorite `json:"favorites" bson:"favorites"`
}

// Itinerary is a multi-day trip plan composed of ordered day boards.
type Itinerary struct {
	ItineraryID string     `json:"_id" bson:"itineraryid"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	TotalBudget float64    `json:"totalBudget" bson:"total_budget"`
	TravelDays  int        `json:"travelDays" bson:"travel_days"`
	StartDate   *string    `json:"startDate" bson:"start_date"` // ISO date or null
	IsPrivate   bool       `json:"isPrivate" bson:"is_private"`
	Creator     string     `json:"creator" bson:"creator"`
	Travelers   []Traveler `json:"travelers" bson:"travelers"`
	Boards      []Board    `json:"boards" bson:"boards"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// CanEdit reports whether userID may modify the itinerary.
func (it *Itinerary) CanEdit(userID string) bool {
	if it.Creator == userID {
		return true
	}
	for _, t := range it.Travelers {
		if t.UserID == userID && t.Role == "editor" {
			return true
		}
	}
	return false
}

// CanView reports whether userID may read the itinerary.
func (it *Itinerary) CanView(userID string) bool {
	if !it.IsPrivate {
		return true
	}
	if it.Creator == userID {
		return true
	}
	for _, t := range it.Travelers {
		if t.UserID == userID {
			return true
		}
	}
	return false
}
