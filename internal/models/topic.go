package models

import (
	"time"

	"gorm.io/gorm"
)

// Topic is an admin-curated category. ParentID allows exactly one level of
// nesting: a topic whose parent itself has a parent is rejected at write time.
type Topic struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Description string         `json:"description"`
	ParentID    *uint          `json:"parent_id,omitempty"`
	IsMainTopic bool           `gorm:"not null;default:false" json:"is_main_topic"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TopicNode is one entry of the topic forest returned by GET /v1/topics:
// the topic itself, its resolved children and its post count.
type TopicNode struct {
	Topic
	PostsCount int64        `json:"posts_count"`
	Children   []*TopicNode `json:"children"`
}
