package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable changes made by administrators and teachers.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// All lists every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&Grade{},
		&Student{},
		&Teacher{},
		&Chapter{},
		&ChapterCompletion{},
		&Assignment{},
		&Submission{},
		&ActivityLog{},
	}
}
