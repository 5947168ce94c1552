package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/campushub/backend/internal/database"
	"github.com/campushub/backend/internal/settings"
)

// Runs the schema migration and seeds default ranking settings. The server
// does the same thing on boot; this exists so deploys can migrate before
// rolling the new binary.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	log.Println("Connecting to database...")
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("Running migrations...")
	if err := database.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := settings.SeedDefaults(database.DB); err != nil {
		log.Fatalf("Failed to seed default settings: %v", err)
	}

	log.Println("Migrations completed")
}
