package models

import "gorm.io/gorm"

const (
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

type Team struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string

	// Relationships
	Members  []TeamMember `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Posts    []TeamPost   `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Projects []Project    `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

type TeamMember struct {
	gorm.Model

	UserID uint   `gorm:"not null;uniqueIndex:idx_user_team"`
	TeamID uint   `gorm:"not null;uniqueIndex:idx_user_team"`
	Role   string `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type TeamPost struct {
	gorm.Model

	TeamID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null;index"` // TeamMember ID, not User ID
	Content  string `gorm:"not null"`

	// Relationships
	Team     Team          `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author   TeamMember    `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments []TeamComment `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type TeamComment struct {
	gorm.Model

	PostID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null;index"` // TeamMember ID, not User ID
	Content  string `gorm:"not null"`

	// Relationships
	Post   TeamPost   `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author TeamMember `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
