package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	log "github.com/sirupsen/logrus"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "core"})

// Difficulty is the number of leading hex '0' characters a block hash needs.
const Difficulty = 4

// MaxNonce bounds the proof-of-work search. Exhausting it fails sealing with
// ErrMiningExhausted.
var MaxNonce uint64 = math.MaxUint32

// Block is a sealed batch of transactions linked to its predecessor. Hash is
// empty until sealing succeeds and never changes afterwards.
type Block struct {
	Timestamp    uint64        `json:"timestamp"` // ms since epoch
	Transactions []Transaction `json:"transactions"`
	PrevHash     string        `json:"prev_hash"`
	Hash         string        `json:"hash"`
	Height       uint64        `json:"height"`
	Nonce        uint64        `json:"nonce"`
}

// NewGenesisBlock seals the first block of a chain around coinbase.
func NewGenesisBlock(coinbase *Transaction) (*Block, error) {
	return NewBlock([]Transaction{*coinbase}, "", 0)
}

// NewBlock builds and seals a block on top of prevHash.
func NewBlock(txs []Transaction, prevHash string, height uint64) (*Block, error) {
	block := &Block{
		Timestamp:    uint64(time.Now().UnixNano() / int64(time.Millisecond)),
		Transactions: txs,
		PrevHash:     prevHash,
		Height:       height,
	}
	if err := block.seal(Difficulty, MaxNonce); err != nil {
		return nil, err
	}
	return block, nil
}

// seal searches nonces from zero until the digest meets difficulty.
func (b *Block) seal(difficulty int, maxNonce uint64) error {
	logger.WithFields(log.Fields{"height": b.Height, "prev": b.PrevHash}).Debug("Mining block")

	for nonce := uint64(0); ; nonce++ {
		b.Nonce = nonce
		digest, err := b.digest(difficulty)
		if err != nil {
			return err
		}
		if isHashSolved(difficulty, digest) {
			b.Hash = digest
			logger.WithFields(log.Fields{"height": b.Height, "nonce": nonce, "hash": digest}).Debug("Block sealed")
			return nil
		}
		if nonce == maxNonce {
			break
		}
	}
	return NewError(ErrMiningExhausted, nil, "no nonce up to %d solves block at height %d", maxNonce, b.Height)
}

// digest hashes (prev_hash, transactions, timestamp, difficulty, nonce).
func (b *Block) digest(difficulty int) (string, error) {
	raw, err := rlp.EncodeToBytes([]interface{}{
		b.PrevHash,
		b.Transactions,
		b.Timestamp,
		uint64(difficulty),
		b.Nonce,
	})
	if err != nil {
		return "", NewError(ErrEncoding, err, "failed to encode block at height %d", b.Height)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// isHashSolved checks the hash has difficulty leading zeros.
func isHashSolved(difficulty int, hash string) bool {
	if len(hash) < difficulty {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

// Validate checks the block is legitimately sealed: its stored hash equals
// the recomputed digest, which meets the difficulty target.
func (b *Block) Validate() error {
	digest, err := b.digest(Difficulty)
	if err != nil {
		return err
	}
	if b.Hash != digest {
		return NewError(ErrInvalidBlock, nil, "hash mismatch at height %d: stored %v, computed %v", b.Height, b.Hash, digest)
	}
	if !isHashSolved(Difficulty, digest) {
		return NewError(ErrInvalidBlock, nil, "hash %v does not meet difficulty %d", digest, Difficulty)
	}
	return nil
}

// IsSealed returns whether Validate succeeds.
func (b *Block) IsSealed() bool {
	return b.Validate() == nil
}

// IsGenesis returns whether b has no predecessor.
func (b *Block) IsGenesis() bool {
	return b.PrevHash == ""
}

func (b *Block) String() string {
	if b == nil {
		return "nil"
	}
	return fmt.Sprintf("Block{Height: %d, Hash: %v, PrevHash: %v, Timestamp: %d, Nonce: %d, Txs: %v}",
		b.Height, b.Hash, b.PrevHash, b.Timestamp, b.Nonce, b.Transactions)
}

// EncodeBlock returns the persisted form of b.
func EncodeBlock(b *Block) ([]byte, error) {
	raw, err := rlp.EncodeToBytes(b)
	if err != nil {
		return nil, NewError(ErrEncoding, err, "failed to encode block %v", b.Hash)
	}
	return raw, nil
}

// DecodeBlock parses the persisted form of a block.
func DecodeBlock(raw []byte) (*Block, error) {
	block := &Block{}
	if err := rlp.DecodeBytes(raw, block); err != nil {
		return nil, NewError(ErrEncoding, err, "failed to decode block")
	}
	return block, nil
}
