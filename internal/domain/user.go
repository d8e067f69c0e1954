package domain

import "time"

// Niche closed list of business categories offered at registration.
var Niches = []string{"coaching", "beauty", "fitness", "therapy", "consulting", "photography", "other"}

// User a registered business owner (table users).
type User struct {
	UserID       string    `db:"user_id" json:"userId"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	BusinessName string    `db:"business_name" json:"businessName"`
	Niche        string    `db:"niche" json:"niche"`
	Website      string    `db:"website" json:"website,omitempty"`
	Language     Language  `db:"language" json:"language"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Session an authenticated login.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}
