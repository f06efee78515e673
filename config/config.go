package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	DB, err = gorm.Open(openDialector(), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrations(DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := SeedAdminUser(DB); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
}

// openDialector picks Postgres when DATABASE_URL is set and falls back to
// a local SQLite file otherwise, so the app still comes up without a
// provisioned database.
func openDialector() gorm.Dialector {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("DATABASE_URL not set, falling back to SQLite (emergency mode)")
		return sqlite.Open("combustibles.db")
	}
	// Some hosting providers still hand out the legacy scheme.
	if strings.HasPrefix(dsn, "postgres://") {
		dsn = "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return postgres.Open(dsn)
}
