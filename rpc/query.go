package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store"
	"github.com/thetatoken/utxoledger/version"
)

// DefaultBlockListLimit is the number of blocks /blocks returns without a limit.
const DefaultBlockListLimit = 10

// ------------------------------- Status -----------------------------------

type GetStatusResult struct {
	Tip     string            `json:"tip"`
	Height  common.JSONUint64 `json:"height"`
	Version string            `json:"version"`
}

func (t *LedgerService) handleStatus(w http.ResponseWriter, r *http.Request) {
	chain := t.ledger.Chain()
	height, err := chain.Height()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &GetStatusResult{
		Tip:     chain.Tip(),
		Height:  common.JSONUint64(height),
		Version: version.GitHash,
	})
}

// ------------------------------- Balance -----------------------------------

type GetBalanceResult struct {
	Address string            `json:"address"`
	Balance common.JSONUint64 `json:"balance"`
}

func (t *LedgerService) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	balance, err := t.ledger.GetBalance(address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &GetBalanceResult{Address: address, Balance: common.JSONUint64(balance)})
}

// ------------------------------- Blocks -----------------------------------

type BlockSummary struct {
	Hash         string `json:"hash"`
	PrevHash     string `json:"prev_hash"`
	Height       uint64 `json:"height"`
	Timestamp    uint64 `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Transactions int    `json:"transactions"`
}

type GetBlocksResult struct {
	Blocks []BlockSummary `json:"blocks"`
}

// handleBlocks lists up to ?limit= blocks, newest first.
func (t *LedgerService) handleBlocks(w http.ResponseWriter, r *http.Request) {
	limit := DefaultBlockListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResult{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	result := &GetBlocksResult{Blocks: []BlockSummary{}}
	it := t.ledger.Chain().Iterator()
	for block, ok := it.Next(); ok && len(result.Blocks) < limit; block, ok = it.Next() {
		result.Blocks = append(result.Blocks, BlockSummary{
			Hash:         block.Hash,
			PrevHash:     block.PrevHash,
			Height:       block.Height,
			Timestamp:    block.Timestamp,
			Nonce:        block.Nonce,
			Transactions: len(block.Transactions),
		})
	}
	if err := it.Err(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (t *LedgerService) handleBlock(w http.ResponseWriter, r *http.Request) {
	block, err := t.ledger.Chain().FindBlock(mux.Vars(r)["hash"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

// ------------------------------- Utils -----------------------------------

type errorResult struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrCorruptChainLink), errors.Is(err, core.ErrEncoding):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		logger.WithFields(log.Fields{"error": err}).Error("Query failed")
	}
	writeJSON(w, status, errorResult{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithFields(log.Fields{"error": err}).Warn("Failed to write response")
	}
}
