package models

import "time"

// SavedView is a user's named, reusable filter preset.
type SavedView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	UserID    string       `json:"userId"`
	Filters   FilterConfig `json:"filters"`
	IsDefault bool         `json:"isDefault"`
	CreatedAt time.Time    `json:"createdAt"`
}
