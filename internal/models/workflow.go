package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workflow holds its ordered item list as a single JSONB blob. Array order is
// execution order; the list is replaced wholesale on save.
type Workflow struct {
	gorm.Model

	ProjectID uint           `gorm:"not null;index"`
	ChatbotID uint           `gorm:"not null;index"`
	Name      string         `gorm:"not null"`
	Items     datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Project Project  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Chatbot Chatbot  `gorm:"foreignKey:ChatbotID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reports []Report `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
