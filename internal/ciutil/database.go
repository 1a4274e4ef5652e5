package ciutil

import (
	"log/slog"
)

// TestDatabaseURL returns the Postgres URL integration tests should use, or ""
// when none is configured. POCKETDOC_TEST_DB_URL wins over DATABASE_URL, and
// POCKETDOC_DATABASE_URL is the last resort.
func TestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(
		[]string{EnvTestDatabaseURL, EnvDatabaseURL, EnvAppDatabaseURL}, "", logger)

	if logger != nil {
		if dbURL == "" {
			logger.Debug("No test database URL configured")
		} else {
			logger.Debug("Resolved test database URL",
				"url", MaskDatabaseURL(dbURL),
				"ci", IsCI(),
			)
		}
	}
	return dbURL
}
