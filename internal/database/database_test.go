package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestConfig_DataSourceName(t *testing.T) {
	cfg := Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		DBName:   "taskplanner",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=taskplanner sslmode=disable",
		cfg.DataSourceName())

	cfg.DSN = "file::memory:"
	assert.Equal(t, "file::memory:", cfg.DataSourceName())
}

func TestNewDB_SQLite(t *testing.T) {
	db, err := NewDB(context.Background(), Config{Driver: "sqlite3", DSN: "file::memory:?cache=shared"})
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	assert.Equal(t, 1, one)
}

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB(context.Background(), Config{Driver: "nope", DSN: "x"})
	assert.Error(t, err)
}
