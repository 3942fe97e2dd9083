package models

import "time"

// Category groups items; items reference it by slug.
type Category struct {
	Base      `bson:",inline"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Tag is a free-form label; items reference tags by slug.
type Tag struct {
	Base      `bson:",inline"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
