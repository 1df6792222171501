package commands

import (
	"fmt"

	"github.com/benvon/morning-affirmations/internal/config"
	"github.com/benvon/morning-affirmations/internal/database"
)

// openDatabase connects using the service configuration
func openDatabase() (*database.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, cfg, nil
}
