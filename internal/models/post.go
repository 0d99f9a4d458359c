package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a draft or published article.
// Rating starts at 5 with RatingCount 0; every submitted comment rating is
// folded in as a weighted running average and never reverted afterwards.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Content       string         `gorm:"not null" json:"content"`
	Summary       string         `json:"summary"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	Topics        []Topic        `gorm:"many2many:post_topics" json:"topics,omitempty"`
	Tags          string         `json:"tags"`
	CoverImageURL string         `json:"cover_image_url"`
	ReadMinutes   int            `json:"read_minutes"`
	Rating        float64        `gorm:"type:decimal(4,2);not null;default:5" json:"rating"`
	RatingCount   int64          `gorm:"not null;default:0" json:"rating_count"`
	IsPublished   bool           `gorm:"not null;default:false;index" json:"is_published"`
	PodcastURL    string         `json:"podcast_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"-" json:"likes_count"`
	// Comments holds the approved comments attached by the listing join; not a GORM relation
	Comments []Comment `gorm:"-" json:"comments,omitempty"`
	// Views always serializes as 7 weekday slots in Persian week order:
	// index 0 is Saturday through index 6, Friday
	Views [7]int64 `gorm:"-" json:"views"`
	// TotalViews = sum of the 7 slots
	TotalViews int64 `gorm:"-" json:"total_views"`
	// RenderedContent carries the sanitized HTML body on single-post fetches
	RenderedContent string `gorm:"-" json:"rendered_content,omitempty"`
}

// PostView is one weekday bucket of a post's view counter.
// Exactly one row per (post, weekday); buckets accumulate forever and are
// never reset, so a slot holds the all-time total for that weekday.
type PostView struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	PostID  uint  `gorm:"not null;uniqueIndex:idx_post_weekday" json:"post_id"`
	Weekday int   `gorm:"not null;uniqueIndex:idx_post_weekday" json:"weekday"`
	Count   int64 `gorm:"not null;default:0" json:"count"`
}
