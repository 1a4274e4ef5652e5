package main

import (
	"context"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreSQLite(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"}}

	docs, err := openStore(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = docs.Close() })

	assert.Equal(t, "memory", docs.name)
	assert.Nil(t, docs.pg)
	assert.NoError(t, docs.Ping(context.Background()))
}

func TestOpenStoreUnsupportedDriver(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mongodb", URL: "mongodb://localhost"}}

	_, err := openStore(context.Background(), cfg, log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabaseNames(t *testing.T) {
	assert.Equal(t, "pocketdoc", postgresName("postgres://app:pw@localhost:5432/pocketdoc?sslmode=disable"))
	assert.Equal(t, "postgres", postgresName("::not a url::"))

	assert.Equal(t, "memory", sqliteName(":memory:"))
	assert.Equal(t, "memory", sqliteName("file:test?mode=memory&cache=shared"))
	assert.Equal(t, "pocketdoc", sqliteName("./data/pocketdoc.db"))
	assert.Equal(t, "pocketdoc", sqliteName("file:data/pocketdoc.db?_fk=1"))
}

func TestOpenedStoreCloseWithoutCloser(t *testing.T) {
	assert.NoError(t, (&openedStore{}).Close())
}
