package models

import "time"

// ShoppinglistDB represents a shoppinglist record in the database.
// UpdatedAt stays NULL until the first title change.
type ShoppinglistDB struct {
	ID        int64      `json:"id" db:"id"`                 // Primary key
	UserID    int64      `json:"-" db:"user_id"`             // Owning user
	Title     string     `json:"title" db:"title"`           // Title, stored lower-cased and trimmed, unique per owner
	CreatedAt time.Time  `json:"created_at" db:"created_at"` // Creation timestamp, immutable
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"` // Set on title change
}
