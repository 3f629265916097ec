package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"

	"github.com/solmm/mmw/internal/config"
	"github.com/solmm/mmw/internal/logger"
	"github.com/solmm/mmw/internal/state"
	"github.com/solmm/mmw/internal/types"
	"github.com/solmm/mmw/internal/wallet"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer exposes the wallet operations over HTTP. Operations on the same
// wallet are serialized here; the controller itself holds no locks.
type WebServer struct {
	router     *mux.Router
	port       string
	controller *wallet.Controller
	dbBacked   bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWebServer creates a new web server instance. dbBacked controls whether
// the health endpoint checks the database connection.
func NewWebServer(port string, controller *wallet.Controller, dbBacked bool) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:     mux.NewRouter(),
		port:       port,
		controller: controller,
		dbBacked:   dbBacked,
		locks:      make(map[string]*sync.Mutex),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")

	api.HandleFunc("/wallets", ws.handleListWallets).Methods("GET")
	api.HandleFunc("/wallets", ws.handleInitialize).Methods("POST")

	w := api.PathPrefix("/wallets/{owner}/{nonce}").Subrouter()
	w.HandleFunc("", ws.handleGetWallet).Methods("GET")
	w.HandleFunc("/deposit", ws.handleDeposit).Methods("POST")
	w.HandleFunc("/withdraw", ws.handleWithdraw).Methods("POST")
	w.HandleFunc("/withdraw-tokens", ws.handleWithdrawTokens).Methods("POST")
	w.HandleFunc("/buy", ws.handleBuy).Methods("POST")
	w.HandleFunc("/sell", ws.handleSell).Methods("POST")
	w.HandleFunc("/swap", ws.handleSwap).Methods("POST")
	w.HandleFunc("/claim-fees", ws.handleClaimFees).Methods("POST")
	w.HandleFunc("/create-token", ws.handleCreateToken).Methods("POST")
	w.HandleFunc("/token-mint", ws.handleSetTokenMint).Methods("POST")
	w.HandleFunc("/strategy", ws.handleUpdateStrategy).Methods("POST")
	w.HandleFunc("/operator", ws.handleSetOperator).Methods("POST")
	w.HandleFunc("/pause", ws.handlePause).Methods("POST")
	w.HandleFunc("/resume", ws.handleResume).Methods("POST")
	w.HandleFunc("/extend-lock", ws.handleExtendLock).Methods("POST")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// walletLock returns the mutex serializing operations on one wallet.
func (ws *WebServer) walletLock(owner solana.PublicKey, nonce uint64) *sync.Mutex {
	key := owner.String() + "/" + strconv.FormatUint(nonce, 10)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	lock, ok := ws.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		ws.locks[key] = lock
	}
	return lock
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	dbHealthy := true
	if ws.dbBacked {
		if err := state.TestDBConnection(); err != nil {
			dbHealthy = false
		}
	}

	overallStatus := "OK"
	statusCode := http.StatusOK
	if !dbHealthy {
		overallStatus = "DEGRADED"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "mmw-wallet-controller",
			"version": strconv.Itoa(int(config.ProgramVersion)),
		},
		"database_healthy": dbHealthy,
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleListWallets returns every wallet record, newest first.
func (ws *WebServer) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := ws.controller.List(r.Context())
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to list wallets")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve wallets")
		return
	}

	response := map[string]interface{}{
		"wallets": wallets,
		"count":   len(wallets),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetWallet returns one wallet record with its vault address.
func (ws *WebServer) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}

	record, err := ws.controller.Get(r.Context(), owner, nonce)
	if err != nil {
		ws.writeOperationError(w, err)
		return
	}

	vaultAddr, err := ws.controller.VaultAddress(record)
	if err != nil {
		ws.writeOperationError(w, err)
		return
	}

	response := map[string]interface{}{
		"wallet": record,
		"vault":  vaultAddr.String(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// writeOperationError maps controller errors onto HTTP status codes.
func (ws *WebServer) writeOperationError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError

	switch {
	case errors.Is(err, state.ErrWalletNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, types.ErrUnauthorized),
		errors.Is(err, types.ErrUnauthorizedOperator),
		errors.Is(err, types.ErrWalletLocked):
		statusCode = http.StatusForbidden
	case errors.Is(err, types.ErrAlreadyInitialized),
		errors.Is(err, types.ErrTokenMintAlreadySet),
		errors.Is(err, types.ErrTradingPaused),
		errors.Is(err, types.ErrTradeTooSoon):
		statusCode = http.StatusConflict
	case errors.Is(err, types.ErrInvalidLockDuration),
		errors.Is(err, types.ErrLockTooLong),
		errors.Is(err, types.ErrInvalidTradeSize),
		errors.Is(err, types.ErrInvalidSlippage),
		errors.Is(err, types.ErrInvalidDelayConfig),
		errors.Is(err, types.ErrInvalidStrategy),
		errors.Is(err, types.ErrZeroDeposit),
		errors.Is(err, types.ErrInvalidOperator),
		errors.Is(err, types.ErrInvalidWithdrawDestination),
		errors.Is(err, types.ErrInsufficientBalance),
		errors.Is(err, types.ErrTradeExceedsMax),
		errors.Is(err, types.ErrBelowRentReserve),
		errors.Is(err, types.ErrTokenMintMismatch),
		errors.Is(err, types.ErrMathOverflow),
		errors.Is(err, types.ErrInvalidProgram),
		errors.Is(err, wallet.ErrInvalidMint):
		statusCode = http.StatusBadRequest
	}

	ws.writeErrorResponse(w, statusCode, err.Error())
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
