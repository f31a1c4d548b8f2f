package blockchain

import (
	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store/database"
	"github.com/thetatoken/utxoledger/store/database/backend"
)

// CreateTestChain creates an in-memory chain whose genesis rewards address.
func CreateTestChain(address string) *ChainStore {
	chain, err := CreateTestChainWithDB(backend.NewMemDatabase(), address)
	if err != nil {
		panic(err)
	}
	return chain
}

// CreateTestChainWithDB creates a chain in db whose genesis rewards address.
func CreateTestChainWithDB(db database.Database, address string) (*ChainStore, error) {
	return OpenOrCreate(db, 0, func() (*core.Block, error) {
		coinbase, err := core.NewCoinbaseTx(address, "")
		if err != nil {
			return nil, err
		}
		return core.NewGenesisBlock(coinbase)
	})
}

// AppendTestBlock seals txs on top of the chain tip and appends the block.
func AppendTestBlock(chain *ChainStore, txs ...core.Transaction) *core.Block {
	tip, err := chain.TipBlock()
	if err != nil {
		panic(err)
	}
	block, err := core.NewBlock(txs, tip.Hash, tip.Height+1)
	if err != nil {
		panic(err)
	}
	if err := chain.Append(block); err != nil {
		panic(err)
	}
	return block
}

// TransferForTest builds a transfer against chain and appends it in a new block.
func TransferForTest(chain *ChainStore, from, to string, amount uint64) *core.Transaction {
	tx, err := NewUTXOSet(chain, nil).NewTransferTx(from, to, amount)
	if err != nil {
		panic(err)
	}
	AppendTestBlock(chain, *tx)
	return tx
}
