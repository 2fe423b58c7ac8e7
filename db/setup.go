package db

import (
	"github.com/utterly-dev/utterly/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.PasswordResetToken{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamPost{},
		&models.TeamComment{},
		&models.Project{},
		&models.Chatbot{},
		&models.Workflow{},
		&models.Report{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
