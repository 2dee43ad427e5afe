// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	LocationID  *uint     `gorm:"index" json:"location_id,omitempty"`
	Location    *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	// CommentCount is not persisted; computed at query time
	CommentCount int            `gorm:"->" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// PubliclyVisible reports whether the post passes the public visibility
// rules at the given time: the post is published, its category exists and
// is published, and its publication date is not in the future. A post
// without a category is never publicly visible. Category must be
// preloaded; a nil Category counts as absent.
func (p *Post) PubliclyVisible(now time.Time) bool {
	return p.IsPublished &&
		p.Category != nil &&
		p.Category.IsPublished &&
		!p.PubDate.After(now)
}
