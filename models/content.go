package models

import "time"

// Review is a rated writeup of one experience; one per user per experience.
type Review struct {
	ReviewID     string    `json:"reviewid" bson:"reviewid"`
	ExperienceID string    `json:"experience_id" bson:"experience_id"`
	UserID       string    `json:"userid" bson:"userid"`
	Rating       int       `json:"rating" bson:"rating"` // 1..5
	Title        string    `json:"title,omitempty" bson:"title,omitempty"`
	Content      string    `json:"content" bson:"content"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Comment attaches free-form discussion to a post or an experience.
type Comment struct {
	CommentID  string    `json:"commentid" bson:"commentid"`
	EntityType string    `json:"entity_type" bson:"entity_type"` // post / experience
	EntityID   string    `json:"entity_id" bson:"entity_id"`
	CreatedBy  string    `json:"created_by" bson:"created_by"`
	Content    string    `json:"content" bson:"content"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Post struct {
	PostID    string    `json:"postid" bson:"postid"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Category struct {
	CategoryID string `json:"categoryid" bson:"categoryid"`
	Name       string `json:"name" bson:"name"`
	Icon       string `json:"icon,omitempty" bson:"icon,omitempty"`
}

type Notification struct {
	NotificationID string    `json:"notificationid" bson:"notificationid"`
	UserID         string    `json:"userid" bson:"userid"`
	Type           string    `json:"type" bson:"type"`
	Message        string    `json:"message" bson:"message"`
	Link           string    `json:"link,omitempty" bson:"link,omitempty"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	MessageID string    `json:"messageid" bson:"messageid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Subject   string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
