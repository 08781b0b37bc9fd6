package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable changes to courses, enrollments and grades.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole  Role              `gorm:"size:20;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Assignment{},
		&Enrollment{},
		&Grade{},
		&Announcement{},
		&AnnouncementRead{},
		&ActivityLog{},
	}
}
