package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/auth"
	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/router"
	"github.com/utterly-dev/utterly/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	deps := router.Deps{
		AI: genai.NewClient(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL")),
	}

	if notionKey := os.Getenv("NOTION_API_KEY"); notionKey != "" {
		deps.Notion = services.NewNotionClient(notionKey)
		deps.NotionDatabaseID = os.Getenv("NOTION_DATABASE_ID")
	}

	r := router.NewRouter(deps)

	port := os.Getenv("PORT")

	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
