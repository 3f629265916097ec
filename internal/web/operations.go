package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"

	"github.com/solmm/mmw/internal/types"
)

// Request bodies for the operation endpoints. The caller field is the
// declared identity the guards run against; in live mode the transaction
// signature proves it, here the deployment's perimeter does.

type accountRef struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

type initializeRequest struct {
	Owner       string               `json:"owner"`
	Nonce       uint64               `json:"nonce"`
	LockSeconds int64                `json:"lock_seconds"`
	Strategy    types.Strategy       `json:"strategy"`
	Config      types.StrategyConfig `json:"config"`
	Operator    string               `json:"operator"`
}

type depositRequest struct {
	Depositor string `json:"depositor"`
	Amount    uint64 `json:"amount"`
}

type withdrawRequest struct {
	Caller      string `json:"caller"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

type withdrawTokensRequest struct {
	Caller            string `json:"caller"`
	TokenMint         string `json:"token_mint"`
	VaultTokenAccount string `json:"vault_token_account"`
	OwnerTokenAccount string `json:"owner_token_account"`
}

type tradeRequest struct {
	Caller        string       `json:"caller"`
	TargetProgram string       `json:"target_program"`
	Accounts      []accountRef `json:"accounts"`
	AmountIn      uint64       `json:"amount_in"`
	ExpectedOut   uint64       `json:"expected_out"`
	IsBuy         bool         `json:"is_buy"` // swap only
}

type claimFeesRequest struct {
	Caller   string       `json:"caller"`
	Accounts []accountRef `json:"accounts"`
}

type createTokenRequest struct {
	Caller   string       `json:"caller"`
	Accounts []accountRef `json:"accounts"`
	Name     string       `json:"name"`
	Symbol   string       `json:"symbol"`
	URI      string       `json:"uri"`
}

type setTokenMintRequest struct {
	Caller string `json:"caller"`
	Mint   string `json:"mint"`
}

type updateStrategyRequest struct {
	Caller   string               `json:"caller"`
	Strategy types.Strategy       `json:"strategy"`
	Config   types.StrategyConfig `json:"config"`
}

type setOperatorRequest struct {
	Caller   string `json:"caller"`
	Operator string `json:"operator"`
}

type callerRequest struct {
	Caller string `json:"caller"`
}

type extendLockRequest struct {
	Caller            string `json:"caller"`
	AdditionalSeconds int64  `json:"additional_seconds"`
}

// walletVars parses the owner and nonce path segments.
func (ws *WebServer) walletVars(w http.ResponseWriter, r *http.Request) (solana.PublicKey, uint64, bool) {
	vars := mux.Vars(r)

	owner, err := solana.PublicKeyFromBase58(vars["owner"])
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid owner address")
		return solana.PublicKey{}, 0, false
	}

	nonce, err := strconv.ParseUint(vars["nonce"], 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid nonce")
		return solana.PublicKey{}, 0, false
	}

	return owner, nonce, true
}

func (ws *WebServer) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (ws *WebServer) parsePubkey(w http.ResponseWriter, value, field string) (solana.PublicKey, bool) {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid "+field+" address")
		return solana.PublicKey{}, false
	}
	return key, true
}

func (ws *WebServer) parseAccounts(w http.ResponseWriter, refs []accountRef) ([]*solana.AccountMeta, bool) {
	accounts := make([]*solana.AccountMeta, 0, len(refs))
	for _, ref := range refs {
		key, err := solana.PublicKeyFromBase58(ref.Pubkey)
		if err != nil {
			ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid account address: "+ref.Pubkey)
			return nil, false
		}
		accounts = append(accounts, &solana.AccountMeta{
			PublicKey:  key,
			IsSigner:   ref.IsSigner,
			IsWritable: ref.IsWritable,
		})
	}
	return accounts, true
}

func (ws *WebServer) writeOK(w http.ResponseWriter) {
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (ws *WebServer) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	owner, ok := ws.parsePubkey(w, req.Owner, "owner")
	if !ok {
		return
	}
	operator, ok := ws.parsePubkey(w, req.Operator, "operator")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, req.Nonce)
	lock.Lock()
	defer lock.Unlock()

	record, err := ws.controller.Initialize(r.Context(), owner, req.Nonce, req.LockSeconds, req.Strategy, req.Config, operator)
	if err != nil {
		ws.writeOperationError(w, err)
		return
	}

	vaultAddr, err := ws.controller.VaultAddress(record)
	if err != nil {
		ws.writeOperationError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"wallet": record,
		"vault":  vaultAddr.String(),
	})
}

func (ws *WebServer) handleDeposit(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	depositor, ok := ws.parsePubkey(w, req.Depositor, "depositor")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.Deposit(r.Context(), owner, nonce, depositor, req.Amount); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req withdrawRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	destination, ok := ws.parsePubkey(w, req.Destination, "destination")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.Withdraw(r.Context(), owner, nonce, caller, destination, req.Amount); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleWithdrawTokens(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req withdrawTokensRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	mint, ok := ws.parsePubkey(w, req.TokenMint, "token_mint")
	if !ok {
		return
	}
	vaultTokenAccount, ok := ws.parsePubkey(w, req.VaultTokenAccount, "vault_token_account")
	if !ok {
		return
	}
	ownerTokenAccount, ok := ws.parsePubkey(w, req.OwnerTokenAccount, "owner_token_account")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.WithdrawTokens(r.Context(), owner, nonce, caller, mint, vaultTokenAccount, ownerTokenAccount); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleBuy(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req tradeRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	target, ok := ws.parsePubkey(w, req.TargetProgram, "target_program")
	if !ok {
		return
	}
	accounts, ok := ws.parseAccounts(w, req.Accounts)
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.ExecuteBuy(r.Context(), owner, nonce, caller, target, accounts, req.AmountIn, req.ExpectedOut); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleSell(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req tradeRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	target, ok := ws.parsePubkey(w, req.TargetProgram, "target_program")
	if !ok {
		return
	}
	accounts, ok := ws.parseAccounts(w, req.Accounts)
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.ExecuteSell(r.Context(), owner, nonce, caller, target, accounts, req.AmountIn, req.ExpectedOut); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleSwap(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req tradeRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	target, ok := ws.parsePubkey(w, req.TargetProgram, "target_program")
	if !ok {
		return
	}
	accounts, ok := ws.parseAccounts(w, req.Accounts)
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.ExecuteSwap(r.Context(), owner, nonce, caller, target, accounts, req.AmountIn, req.ExpectedOut, req.IsBuy); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleClaimFees(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req claimFeesRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	accounts, ok := ws.parseAccounts(w, req.Accounts)
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	feesClaimed, err := ws.controller.ClaimFees(r.Context(), owner, nonce, caller, accounts)
	if err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"ok":           true,
		"fees_claimed": feesClaimed,
	})
}

func (ws *WebServer) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req createTokenRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	accounts, ok := ws.parseAccounts(w, req.Accounts)
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.CreateToken(r.Context(), owner, nonce, caller, accounts, req.Name, req.Symbol, req.URI); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleSetTokenMint(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req setTokenMintRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	mint, ok := ws.parsePubkey(w, req.Mint, "mint")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.SetTokenMint(r.Context(), owner, nonce, caller, mint); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleUpdateStrategy(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req updateStrategyRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.UpdateStrategy(r.Context(), owner, nonce, caller, req.Strategy, req.Config); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleSetOperator(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req setOperatorRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}
	operator, ok := ws.parsePubkey(w, req.Operator, "operator")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.SetOperator(r.Context(), owner, nonce, caller, operator); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handlePause(w http.ResponseWriter, r *http.Request) {
	ws.handlePauseState(w, r, true)
}

func (ws *WebServer) handleResume(w http.ResponseWriter, r *http.Request) {
	ws.handlePauseState(w, r, false)
}

func (ws *WebServer) handlePauseState(w http.ResponseWriter, r *http.Request, paused bool) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req callerRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	var err error
	if paused {
		err = ws.controller.Pause(r.Context(), owner, nonce, caller)
	} else {
		err = ws.controller.Resume(r.Context(), owner, nonce, caller)
	}
	if err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}

func (ws *WebServer) handleExtendLock(w http.ResponseWriter, r *http.Request) {
	owner, nonce, ok := ws.walletVars(w, r)
	if !ok {
		return
	}
	var req extendLockRequest
	if !ws.decodeBody(w, r, &req) {
		return
	}
	caller, ok := ws.parsePubkey(w, req.Caller, "caller")
	if !ok {
		return
	}

	lock := ws.walletLock(owner, nonce)
	lock.Lock()
	defer lock.Unlock()

	if err := ws.controller.ExtendLock(r.Context(), owner, nonce, caller, req.AdditionalSeconds); err != nil {
		ws.writeOperationError(w, err)
		return
	}
	ws.writeOK(w)
}
