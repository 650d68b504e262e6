package model

import "time"

// AuditLog is one persisted post lifecycle event.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Event      string    `gorm:"size:32;not null;index" json:"event"`
	PostID     string    `gorm:"size:36;not null;index" json:"post_id"`
	ActorID    string    `gorm:"size:36;not null;index" json:"actor_id"`
	ActorRole  string    `gorm:"size:16" json:"actor_role"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostEvent is the wire form of a lifecycle event on the broker.
type PostEvent struct {
	Event      string    `json:"event"`
	PostID     string    `json:"post_id"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	PostEventCreated   = "post.created"
	PostEventUpdated   = "post.updated"
	PostEventPublished = "post.published"
	PostEventDeleted   = "post.deleted"
)

func (e PostEvent) AuditLog() AuditLog {
	return AuditLog{
		Event:      e.Event,
		PostID:     e.PostID,
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		OccurredAt: e.OccurredAt,
	}
}
