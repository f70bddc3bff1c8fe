package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		// .env is optional; deployed environments set vars directly
		log.Println("No .env file found, using environment variables")
	}

	if os.Getenv("DB_URL") == "" {
		log.Println("WARNING: DB_URL not set")
	}
	if os.Getenv("SECRET") == "" {
		log.Println("WARNING: SECRET not set. Admin tokens cannot be issued.")
	}
}
