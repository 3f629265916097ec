// ./internal/state/db.go
package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
//
// The wallet record itself is stored as its canonical byte encoding in the
// record column; the other columns are duplicated out of it for querying and
// kept in sync on every write.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS mm_wallets (
			wallet_id SERIAL PRIMARY KEY,
			owner VARCHAR(64) NOT NULL,
			nonce BIGINT NOT NULL,
			vault VARCHAR(64) NOT NULL,
			record BYTEA NOT NULL,

			-- Indexed projections of the record
			operator VARCHAR(64) NOT NULL,
			token_mint VARCHAR(64) NOT NULL,
			strategy SMALLINT NOT NULL,
			paused BOOLEAN NOT NULL,
			is_creator BOOLEAN NOT NULL,
			lock_until BIGINT NOT NULL,
			total_volume BIGINT NOT NULL,
			total_trades BIGINT NOT NULL,
			last_trade BIGINT NOT NULL,

			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT uq_mm_wallets_owner_nonce UNIQUE (owner, nonce)
		);
		CREATE INDEX IF NOT EXISTS idx_mm_wallets_owner ON mm_wallets(owner);
		CREATE INDEX IF NOT EXISTS idx_mm_wallets_vault ON mm_wallets(vault);
		CREATE INDEX IF NOT EXISTS idx_mm_wallets_operator ON mm_wallets(operator);
		CREATE INDEX IF NOT EXISTS idx_mm_wallets_token_mint ON mm_wallets(token_mint);
	`
	_, err := DB.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}
	log.Info().Msg("Database schema ensured.")
	return nil
}

// TestDBConnection tests if the database connection is healthy
func TestDBConnection() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Use a short timeout context for health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := DB.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
