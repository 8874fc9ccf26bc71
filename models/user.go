package models

import "time"

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      []string  `json:"role" bson:"role"`
	Banned    bool      `json:"banned,omitempty" bson:"banned,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
