package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is the persisted outcome of one workflow execution. Metrics and
// Details are opaque structured blobs; schema evolution needs only
// writer/reader agreement, not a migration.
type Report struct {
	gorm.Model

	WorkflowID   uint           `gorm:"not null;index"`
	ProjectID    uint           `gorm:"not null;index"`
	Name         string         `gorm:"not null"`
	OverallScore float64        `gorm:"not null"`
	Metrics      datatypes.JSON `gorm:"type:jsonb"`
	Details      datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Workflow Workflow `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project  Project  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
