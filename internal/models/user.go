package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	FirstName       string
	LastName        string
	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	Position        string
	Company         string
	AccountPurpose  string
	ExperienceLevel string

	// Relationships
	OwnedProjects   []Project            `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Chatbots        []Chatbot            `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TeamMemberships []TeamMember         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ResetTokens     []PasswordResetToken `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
