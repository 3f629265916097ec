package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// Mode selects how operations reach the ledger: "live" broadcasts real
	// transactions through Solana RPC, anything else runs against the
	// in-memory ledger.
	Mode string

	// NodeRPC is the JSON-RPC endpoint for the Solana node.
	NodeRPC string

	// WebPort is the port for the HTTP API and dashboard.
	WebPort string
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// NODE_RPC is required; the rest have working defaults.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	Mode = os.Getenv("MMW_MODE")

	NodeRPC, err = getEnv("NODE_RPC")
	if err != nil {
		return err
	}

	WebPort = os.Getenv("WEB_PORT")
	if WebPort == "" {
		WebPort = "8080"
	}

	// Load venue identities and opcode tags (env-overridable, mainnet defaults)
	if err := loadVenueConfig(); err != nil {
		return err
	}

	log.Debug().
		Str("Mode", Mode).
		Str("NodeRPC", NodeRPC).
		Str("WebPort", WebPort).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable, falling back to a default.
func getEnvOrDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvAsInt retrieves an environment variable as an int, falling back to a default
// when unset or invalid. Used by cmd for DB settings.
func GetEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}
