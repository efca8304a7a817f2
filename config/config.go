package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv loads a local .env if present; real deployments set env vars directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
}
