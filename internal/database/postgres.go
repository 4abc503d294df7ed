package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brightnest/leads-api/internal/config"

	_ "github.com/lib/pq"
)

// schema is applied on startup. Inputs and results are stored as JSONB so
// the pricing model can grow without migrations.
const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id           UUID PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	service      TEXT NOT NULL,
	postcode     TEXT,
	source       TEXT,
	contact      JSONB,
	input        JSONB NOT NULL,
	result       JSONB NOT NULL,
	service_area JSONB,
	total        NUMERIC(10, 2) NOT NULL
);
CREATE INDEX IF NOT EXISTS quotes_created_at_idx ON quotes (created_at DESC);

CREATE TABLE IF NOT EXISTS bookings (
	id             UUID PRIMARY KEY,
	created_at     TIMESTAMPTZ NOT NULL,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	phone          TEXT NOT NULL,
	service        TEXT NOT NULL,
	postcode       TEXT,
	preferred_date TEXT,
	preferred_time TEXT,
	notes          TEXT,
	quote_id       TEXT
);
`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection. It does not dial until first use.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the tables the repositories need
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
