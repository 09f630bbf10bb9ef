package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	ID               int64     `json:"id" db:"id"`                               // Primary key
	Username         string    `json:"username" db:"username"`                   // Unique username, stored lower-cased and trimmed
	PasswordHash     string    `json:"-" db:"password_hash"`                     // bcrypt hash
	SecurityQuestion string    `json:"security_question" db:"security_question"` // Question shown on password reset
	SecurityAnswer   string    `json:"-" db:"security_answer"`                   // Answer, compared case-insensitively
	CreatedAt        time.Time `json:"created_at" db:"created_at"`               // Creation timestamp
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`               // Last update timestamp
}
