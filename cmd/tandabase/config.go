package main

import (
	"github.com/joho/godotenv"

	"tandabase/shared/go/config"
)

// loadConfig reads config/local.env when present, then the environment.
// Variables already set in the environment win over the file.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load("config/local.env")
	return config.Load()
}
