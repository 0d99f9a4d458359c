package models

import (
	"time"
)

// NotificationType enumerates the actions that fan out notifications.
type NotificationType string

const (
	NotificationNewFollower NotificationType = "newFollower"
	NotificationNewComment  NotificationType = "newComment"
	NotificationNewLike     NotificationType = "newLike"
	NotificationNewPost     NotificationType = "newPost"
)

// Notification is a stored per-recipient record created as a side effect of
// comment approval, like toggle-on, publish and follow. Creation is
// fire-and-forget: a failed insert never rolls back the triggering action.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	ActorID   *uint            `json:"actor_id,omitempty"`
	Actor     *User            `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	PostID    *uint            `json:"post_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
