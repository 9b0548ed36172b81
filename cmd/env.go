package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables that supply defaults for flags the user did not set.
const (
	envDiscipline = "QUEUESIM_DISCIPLINE"
	envSort       = "QUEUESIM_SORT"
	envLogLevel   = "QUEUESIM_LOG"
)

// loadEnvFile loads path into the process environment. With an empty path it tries
// ./.env and carries on without it. Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil {
			logrus.Debug("No .env file found (using environment variables)")
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}
