package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	OwnerID     uint  `gorm:"not null;index"`
	TeamID      *uint `gorm:"index"`

	// Relationships
	Owner     User       `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team      *Team      `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Workflows []Workflow `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reports   []Report   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
