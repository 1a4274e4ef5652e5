package service_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/platform/sqlite"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// sequentialIDs returns a generator producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// newTestRepos opens a fresh in-memory store.
func newTestRepos(t *testing.T) (*service.Repositories, *slog.Logger) {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	s, err := sqlite.Open(context.Background(), sqlite.MemoryDSN, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return service.NewRepositories(s), log
}

// newSeededRepos opens a fresh in-memory store loaded with the demo data.
func newSeededRepos(t *testing.T) (*service.Repositories, *slog.Logger) {
	t.Helper()

	repos, log := newTestRepos(t)
	maintenance, err := service.NewMaintenanceService(repos, "test", log, service.WithClock(testClock))
	require.NoError(t, err)
	_, err = maintenance.Seed(context.Background())
	require.NoError(t, err)

	return repos, log
}

func logOrNil(log *slog.Logger, keep bool) *slog.Logger {
	if keep {
		return log
	}
	return nil
}
