// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered author or reader.
// Username, Email and Phone are each globally unique.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Phone        string         `gorm:"uniqueIndex:idx_users_phone,where:phone <> ''" json:"phone"`
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `json:"display_name"`
	Bio          string         `json:"bio"`
	AvatarURL    string         `json:"avatar_url"`
	Website      string         `json:"website"`
	Twitter      string         `json:"twitter"`
	Instagram    string         `json:"instagram"`
	Role         string         `gorm:"not null;default:user" json:"role"`
	IsBanned     bool           `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// FollowersCount is not persisted; computed at query time
	FollowersCount int64 `gorm:"-" json:"followers_count"`
	// FollowingCount is not persisted; computed at query time
	FollowingCount int64 `gorm:"-" json:"following_count"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFollow links a follower to the user they follow.
// The pair is unique; deleting either user does not cascade.
type UserFollow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_user_follow" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_user_follow" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopicFollow links a user to a topic they follow.
type TopicFollow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_topic_follow" json:"user_id"`
	TopicID   uint      `gorm:"not null;uniqueIndex:idx_topic_follow" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}
