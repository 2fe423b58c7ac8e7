package models

import "gorm.io/gorm"

// Chatbot is a stored external API configuration under test, not code in
// this repository.
type Chatbot struct {
	gorm.Model

	UserID           uint   `gorm:"not null;index"`
	Name             string `gorm:"not null"`
	APIKey           string `gorm:"not null"`
	APIEndpoint      string `gorm:"not null"`
	ModelName        string
	Temperature      float64 `gorm:"default:0.7"`
	MaxTokens        int     `gorm:"default:1000"`
	TopP             float64 `gorm:"default:1.0"`
	FrequencyPenalty float64 `gorm:"default:0.0"`
	PresencePenalty  float64 `gorm:"default:0.0"`
	StopSequences    string

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Workflows []Workflow `gorm:"foreignKey:ChatbotID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
