package models

import "time"

// GeoPoint is a GeoJSON point, coordinates are [lng, lat].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// Experience is a bookable or visitable entity: hotel, restaurant or attraction.
type Experience struct {
	ExperienceID string    `json:"_id" bson:"experienceid"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Type         string    `json:"type" bson:"type"` // hotel / restaurant / attraction
	Price        float64   `json:"price" bson:"price"`
	Prefecture   string    `json:"prefecture" bson:"prefecture"`
	Categories   []string  `json:"categories" bson:"categories"`
	Location     *GeoPoint `json:"location,omitempty" bson:"location,omitempty"`
	Photo        string    `json:"photo" bson:"photo"`
	Images       []string  `json:"images,omitempty" bson:"images,omitempty"`
	Rating       float64   `json:"rating" bson:"rating"`
	NumReviews   int       `json:"num_reviews" bson:"num_reviews"`
	Address      string    `json:"address" bson:"address"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Website      string    `json:"website,omitempty" bson:"website,omitempty"`
	OpeningHours []string  `json:"opening_hours,omitempty" bson:"opening_hours,omitempty"`
	Source       string    `json:"source" bson:"source"` // manual / google_places / osm
	ExternalID   string    `json:"external_id,omitempty" bson:"external_id,omitempty"`
	CreatedBy    string    `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Reduce drops every field not needed for offline viewing. Fields outside
// this set are not recoverable from a snapshot.
func (e *Experience) Reduce() ExperienceSnapshot {
	return ExperienceSnapshot{
		ExperienceID: e.ExperienceID,
		Title:        e.Title,
		Description:  e.Description,
		Price:        e.Price,
		Prefecture:   e.Prefecture,
		Categories:   e.Categories,
		Location:     e.Location,
		Photo:        e.Photo,
		Rating:       e.Rating,
		Address:      e.Address,
	}
}
