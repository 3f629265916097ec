package main

import (
	"os"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/events"
	"github.com/solmm/mmw/internal/ledger"
	"github.com/solmm/mmw/internal/logger"
	"github.com/solmm/mmw/internal/state"
	"github.com/solmm/mmw/internal/wallet"
	"github.com/solmm/mmw/internal/web"
)

// main is the entry point for the MMW wallet controller.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("MMW Wallet Controller Starting...")

	// --- 2. Storage Initialization ---
	var store wallet.Store
	dbBacked := os.Getenv("DB_HOST") != ""
	if dbBacked {
		dbCfg := state.DBConfig{
			Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
			User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
			DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}

		walletStore, err := state.NewWalletStore()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create wallet store")
		}
		store = walletStore
	} else {
		log.Warn().Msg("DB_HOST is not set. Wallet records will not survive a restart.")
		store = state.NewMemoryStore()
	}

	// --- 3. Ledger Initialization (with Safety Switch) ---
	var ldg ledger.Ledger
	if config.Mode == "live" {
		log.Warn().Msg("Initializing MMW in LIVE mode. Real transactions will be broadcast.")

		payerPath := os.Getenv("PAYER_KEYPAIR")
		if payerPath == "" {
			log.Fatal().Msg("PAYER_KEYPAIR must be set in live mode.")
		}
		payer, err := solana.PrivateKeyFromSolanaKeygenFile(payerPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load payer keypair")
		}

		liveLedger, err := ledger.NewLiveClient(rpc.New(config.NodeRPC), payer)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize live ledger client")
		}
		ldg = liveLedger
	} else {
		log.Warn().Msg("MMW_MODE is not set to 'live'. Running against an in-memory ledger; no transactions will be broadcast.")
		ldg = ledger.NewMemoryLedger()
	}
	defer ldg.Close()

	// --- 4. Controller Wiring ---
	controller, err := wallet.NewController(store, ldg, events.NewLogSink())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create wallet controller")
	}

	// --- 5. Web Server ---
	webServer := web.NewWebServer(config.WebPort, controller, dbBacked)
	log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting MMW operations API")
	if err := webServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("Web server failed")
	}
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
