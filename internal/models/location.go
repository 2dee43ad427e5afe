// Package models contains data structures for the application's domain models.
package models

import "time"

// Location is a named place a post may be associated with. Optional on
// posts; managed out of band like Category.
type Location struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
