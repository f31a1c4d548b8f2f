package ledger

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/thetatoken/utxoledger/blockchain"
	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store/database"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "ledger"})

// Ledger creates the chain, appends blocks and answers balance queries.
type Ledger struct {
	chain *blockchain.ChainStore
	utxos *blockchain.UTXOSet
	auth  core.Authorizer

	// mu serializes read tip, seal, append.
	mu *sync.Mutex
}

func newLedger(chain *blockchain.ChainStore, auth core.Authorizer) *Ledger {
	if auth == nil {
		auth = core.DefaultAuthorizer
	}
	return &Ledger{
		auth:  auth,
		chain: chain,
		utxos: blockchain.NewUTXOSet(chain, auth),
		mu:    &sync.Mutex{},
	}
}

// Create opens the chain in db, sealing a genesis block that rewards
// address if the chain does not exist yet.
func Create(db database.Database, address string, auth core.Authorizer) (*Ledger, error) {
	chain, err := blockchain.OpenOrCreate(db, viper.GetInt(common.CfgStorageBlockCacheSize), func() (*core.Block, error) {
		coinbase, err := core.NewCoinbaseTx(address, "")
		if err != nil {
			return nil, err
		}
		return core.NewGenesisBlock(coinbase)
	})
	if err != nil {
		return nil, err
	}
	return newLedger(chain, auth), nil
}

// Open opens an existing chain in db. It fails with core.ErrMissingChainState
// if there is none.
func Open(db database.Database, auth core.Authorizer) (*Ledger, error) {
	chain, err := blockchain.Open(db, viper.GetInt(common.CfgStorageBlockCacheSize))
	if err != nil {
		return nil, err
	}
	return newLedger(chain, auth), nil
}

// Chain returns the underlying chain store.
func (l *Ledger) Chain() *blockchain.ChainStore {
	return l.chain
}

// UTXOSet returns the UTXO accounting over the chain.
func (l *Ledger) UTXOSet() *blockchain.UTXOSet {
	return l.utxos
}

// AddBlock seals txs into a block on top of the current tip and appends it.
func (l *Ledger) AddBlock(txs []core.Transaction) (*core.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.addBlock(txs)
}

func (l *Ledger) addBlock(txs []core.Transaction) (*core.Block, error) {
	tip, err := l.chain.TipBlock()
	if err != nil {
		return nil, err
	}
	block, err := core.NewBlock(txs, tip.Hash, tip.Height+1)
	if err != nil {
		return nil, err
	}
	if err := l.chain.Append(block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetBalance sums the unspent outputs of address.
func (l *Ledger) GetBalance(address string) (uint64, error) {
	return l.utxos.Balance(address)
}

// Transfer moves amount from one address to another in a new block. On
// failure the chain is left unchanged.
func (l *Ledger) Transfer(from string, to string, amount uint64) (*core.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.utxos.NewTransferTx(from, to, amount)
	if err != nil {
		return nil, err
	}
	block, err := l.addBlock([]core.Transaction{*tx})
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"from": from, "to": to, "amount": amount, "tx": tx.ID, "block": block.Hash}).Info("Transfer committed")
	return block, nil
}

// Blocks returns the whole chain, newest first.
func (l *Ledger) Blocks() ([]*core.Block, error) {
	return l.chain.Blocks()
}

// Validate checks the integrity of the whole chain.
func (l *Ledger) Validate() (*blockchain.ChainStats, error) {
	return blockchain.ValidateChain(l.chain, l.auth)
}

// Close releases the underlying database.
func (l *Ledger) Close() {
	l.chain.Close()
}
