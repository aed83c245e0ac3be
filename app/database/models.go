package database

import (
	"time"
)

// Article is the canonical persisted article record.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    *string   `json:"image_url"`
	SourceURL   *string   `json:"source_url"`
	Author      *string   `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserPreferences holds one user's preference blob. The blob stays an
// opaque JSON string at this boundary; ParsePreferenceSet turns it into
// the typed shape at the query boundary.
type UserPreferences struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Preferences string    `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
