package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Config for database connection
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// DSN overrides the fields above when set.
	DSN string
}

// DataSourceName builds the connection string for the configured driver.
func (c Config) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// NewDB opens a pooled sqlx connection and verifies it with a ping. The
// caller must import the driver.
func NewDB(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "postgres"
	}

	db, err := sqlx.Open(driver, cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
