package blockchain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store/database/backend"
)

func TestValidateChain(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	TransferForTest(chain, "alice", "bob", 40)
	TransferForTest(chain, "bob", "carol", 25)

	stats, err := ValidateChain(chain, nil)
	require.Nil(err)
	assert.Equal(3, stats.Blocks)
	assert.Equal(3, stats.Transactions)
	assert.Equal(core.Reward, stats.Minted)
	// Transfers only reassign value.
	assert.Equal(stats.Minted, stats.Unspent)
}

func TestValidateChainRejectsDoubleSpend(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	tx, err := NewUTXOSet(chain, nil).NewTransferTx("alice", "bob", 40)
	require.Nil(err)
	AppendTestBlock(chain, *tx)
	// Same inputs again; Append only checks sealing and linkage.
	AppendTestBlock(chain, *tx)

	_, err = ValidateChain(chain, nil)
	assert.True(errors.Is(err, core.ErrInvalidBlock))
}

func TestValidateChainRejectsValueCreation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	genesis, err := chain.TipBlock()
	require.Nil(err)

	inflated := core.Transaction{
		Vin:  []core.TxInput{{Txid: genesis.Transactions[0].ID, Vout: 0, Unlock: "alice"}},
		Vout: []core.TxOutput{{Value: 500, Lock: "bob"}},
	}
	require.Nil(inflated.SetID())
	AppendTestBlock(chain, inflated)

	_, err = ValidateChain(chain, nil)
	assert.True(errors.Is(err, core.ErrInvalidBlock))
}

func TestValidateChainRejectsForeignSpend(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	genesis, err := chain.TipBlock()
	require.Nil(err)

	theft := core.Transaction{
		Vin:  []core.TxInput{{Txid: genesis.Transactions[0].ID, Vout: 0, Unlock: "mallory"}},
		Vout: []core.TxOutput{{Value: 100, Lock: "mallory"}},
	}
	require.Nil(theft.SetID())
	AppendTestBlock(chain, theft)

	_, err = ValidateChain(chain, nil)
	assert.True(errors.Is(err, core.ErrInvalidBlock))
}

func TestValidateChainRejectsTamperedBlock(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	db := backend.NewMemDatabase()
	chain, err := CreateTestChainWithDB(db, "alice")
	require.Nil(err)
	block := AppendTestBlock(chain)

	tampered := *block
	tampered.Nonce++
	raw, err := core.EncodeBlock(&tampered)
	require.Nil(err)
	require.Nil(db.Put([]byte(block.Hash), raw))

	reopened, err := Open(db, 0)
	require.Nil(err)
	_, err = ValidateChain(reopened, nil)
	assert.True(errors.Is(err, core.ErrInvalidBlock))
}

func TestValidateChainRejectsDuplicateTxID(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	coinbase, err := core.NewCoinbaseTx("alice", "")
	require.Nil(err)
	genesis, err := chain.TipBlock()
	require.Nil(err)
	require.Equal(genesis.Transactions[0].ID, coinbase.ID)

	AppendTestBlock(chain, *coinbase)
	TransferForTest(chain, "alice", "bob", 40)

	_, err = ValidateChain(chain, nil)
	assert.True(errors.Is(err, core.ErrInvalidBlock))
}
