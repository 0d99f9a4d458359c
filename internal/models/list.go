package models

import (
	"time"

	"gorm.io/gorm"
)

// List is a user-owned named bookmark collection of posts.
// Name is unique per owner; IsPublic controls visibility to other users.
type List struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_list_user_name" json:"user_id"`
	Name      string         `gorm:"not null;uniqueIndex:idx_list_user_name" json:"name"`
	IsPublic  bool           `gorm:"not null;default:false" json:"is_public"`
	Posts     []Post         `gorm:"many2many:list_posts" json:"posts,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
