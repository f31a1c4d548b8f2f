package blockchain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/utxoledger/core"
)

func balanceOf(t *testing.T, chain *ChainStore, address string) uint64 {
	balance, err := NewUTXOSet(chain, nil).Balance(address)
	require.Nil(t, err)
	return balance
}

func TestFindUTXOAfterGenesis(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	utxos := NewUTXOSet(chain, nil)

	outputs, err := utxos.FindUTXO("alice")
	require.Nil(err)
	assert.Equal([]core.TxOutput{{Value: core.Reward, Lock: "alice"}}, outputs)

	outputs, err = utxos.FindUTXO("bob")
	require.Nil(err)
	assert.Equal(0, len(outputs))

	txs, err := utxos.FindUnspentTransactions("alice")
	require.Nil(err)
	require.Equal(1, len(txs))
	assert.True(txs[0].IsCoinbase())
}

func TestNewTransferTx(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	genesis, err := chain.TipBlock()
	require.Nil(err)
	coinbaseID := genesis.Transactions[0].ID

	tx, err := NewUTXOSet(chain, nil).NewTransferTx("alice", "bob", 40)
	require.Nil(err)
	assert.Equal([]core.TxInput{{Txid: coinbaseID, Vout: 0, Unlock: "alice"}}, tx.Vin)
	assert.Equal([]core.TxOutput{{Value: 40, Lock: "bob"}, {Value: 60, Lock: "alice"}}, tx.Vout)
	assert.False(tx.IsCoinbase())

	id, err := tx.CalculateID()
	require.Nil(err)
	assert.Equal(id, tx.ID)

	// Exact amount produces no change output.
	exact, err := NewUTXOSet(chain, nil).NewTransferTx("alice", "bob", 100)
	require.Nil(err)
	assert.Equal([]core.TxOutput{{Value: 100, Lock: "bob"}}, exact.Vout)
}

func TestNewTransferTxErrors(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain("alice")
	utxos := NewUTXOSet(chain, nil)

	_, err := utxos.NewTransferTx("alice", "bob", 1000)
	assert.True(errors.Is(err, core.ErrInsufficientFunds))
	var ife *core.InsufficientFundsError
	if assert.True(errors.As(err, &ife)) {
		assert.Equal(uint64(1000), ife.Requested)
		assert.Equal(uint64(100), ife.Available)
		assert.Equal(uint64(900), ife.Shortfall())
	}

	_, err = utxos.NewTransferTx("carol", "bob", 1)
	assert.True(errors.Is(err, core.ErrInsufficientFunds))

	_, err = utxos.NewTransferTx("alice", "bob", 0)
	assert.True(errors.Is(err, core.ErrInvalidAmount))
}

func TestSpentOutputsExcluded(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain("alice")
	TransferForTest(chain, "alice", "bob", 40)
	assert.Equal(uint64(60), balanceOf(t, chain, "alice"))
	assert.Equal(uint64(40), balanceOf(t, chain, "bob"))

	TransferForTest(chain, "bob", "carol", 15)
	TransferForTest(chain, "alice", "carol", 60)
	assert.Equal(uint64(0), balanceOf(t, chain, "alice"))
	assert.Equal(uint64(25), balanceOf(t, chain, "bob"))
	assert.Equal(uint64(75), balanceOf(t, chain, "carol"))
}

func TestPartiallySpentTransaction(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	// Self transfer leaves two outputs to alice in one transaction.
	self := TransferForTest(chain, "alice", "alice", 30)
	require.Equal(2, len(self.Vout))
	assert.Equal(uint64(100), balanceOf(t, chain, "alice"))

	// Spending only the first output must not re-offer it.
	spend := TransferForTest(chain, "alice", "bob", 30)
	assert.Equal([]core.TxInput{{Txid: self.ID, Vout: 0, Unlock: "alice"}}, spend.Vin)
	assert.Equal(uint64(70), balanceOf(t, chain, "alice"))
	assert.Equal(uint64(30), balanceOf(t, chain, "bob"))

	txs, err := NewUTXOSet(chain, nil).FindUnspentTransactions("alice")
	require.Nil(err)
	require.Equal(1, len(txs))
	assert.Equal(self.ID, txs[0].ID)
}

func TestFindSpendableOutputs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	// Give bob three separate outputs: 10, 20, 30.
	TransferForTest(chain, "alice", "bob", 10)
	TransferForTest(chain, "alice", "bob", 20)
	TransferForTest(chain, "alice", "bob", 30)
	utxos := NewUTXOSet(chain, nil)

	// Newest outputs are visited first and selection stops once covered.
	accumulated, selection, err := utxos.FindSpendableOutputs("bob", 25)
	require.Nil(err)
	assert.Equal(uint64(30), accumulated)
	assert.Equal(1, len(selection))

	accumulated, selection, err = utxos.FindSpendableOutputs("bob", 45)
	require.Nil(err)
	assert.Equal(uint64(50), accumulated)
	assert.Equal(2, len(selection))

	// Not enough: everything is selected.
	accumulated, selection, err = utxos.FindSpendableOutputs("bob", 1000)
	require.Nil(err)
	assert.Equal(uint64(60), accumulated)
	count := 0
	for _, idxs := range selection {
		count += len(idxs)
	}
	assert.Equal(3, count)

	unspent, err := utxos.FindUnspentOutputs("bob")
	require.Nil(err)
	for _, uo := range unspent {
		assert.Contains(selection[uo.Txid], uo.Index)
	}
}

func TestSpendInSameBlock(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	genesis, err := chain.TipBlock()
	require.Nil(err)

	first := core.Transaction{
		Vin:  []core.TxInput{{Txid: genesis.Transactions[0].ID, Vout: 0, Unlock: "alice"}},
		Vout: []core.TxOutput{{Value: 100, Lock: "bob"}},
	}
	require.Nil(first.SetID())
	second := core.Transaction{
		Vin:  []core.TxInput{{Txid: first.ID, Vout: 0, Unlock: "bob"}},
		Vout: []core.TxOutput{{Value: 100, Lock: "carol"}},
	}
	require.Nil(second.SetID())
	AppendTestBlock(chain, first, second)

	assert.Equal(uint64(0), balanceOf(t, chain, "alice"))
	assert.Equal(uint64(0), balanceOf(t, chain, "bob"))
	assert.Equal(uint64(100), balanceOf(t, chain, "carol"))
}

func TestFindUTXOIdempotent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("alice")
	TransferForTest(chain, "alice", "bob", 40)
	utxos := NewUTXOSet(chain, nil)

	first, err := utxos.FindUTXO("alice")
	require.Nil(err)
	second, err := utxos.FindUTXO("alice")
	require.Nil(err)
	assert.Equal(first, second)
}

func TestUTXOScanSurfacesCorruption(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain("alice")
	TransferForTest(chain, "alice", "bob", 40)
	blocks, err := chain.Blocks()
	assert.Nil(err)
	genesis := blocks[len(blocks)-1]
	assert.Nil(chain.db.Delete([]byte(genesis.Hash)))
	chain.cache.Purge()

	_, err = NewUTXOSet(chain, nil).Balance("bob")
	assert.True(errors.Is(err, core.ErrCorruptChainLink))
}

type prefixAuthorizer struct{}

func (prefixAuthorizer) Verify(credential string, claim string) bool {
	return credential == "key:"+claim
}

func TestCustomAuthorizer(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	chain := CreateTestChain("key:alice")
	utxos := NewUTXOSet(chain, prefixAuthorizer{})

	balance, err := utxos.Balance("alice")
	require.Nil(err)
	assert.Equal(uint64(100), balance)

	balance, err = utxos.Balance("key:alice")
	require.Nil(err)
	assert.Equal(uint64(0), balance)

	tx, err := utxos.NewTransferTx("alice", "key:bob", 40)
	require.Nil(err)
	require.Equal(1, len(tx.Vin))
	assert.Equal("alice", tx.Vin[0].Unlock)
	assert.Equal([]core.TxOutput{{Value: 40, Lock: "key:bob"}, {Value: 60, Lock: "key:alice"}}, tx.Vout)
	AppendTestBlock(chain, *tx)

	for address, expected := range map[string]uint64{"alice": 60, "bob": 40, "key:alice": 0, "key:bob": 0} {
		balance, err = utxos.Balance(address)
		require.Nil(err)
		assert.Equal(expected, balance, address)
	}

	_, err = utxos.NewTransferTx("alice", "key:carol", 61)
	assert.True(errors.Is(err, core.ErrInsufficientFunds))

	tx, err = utxos.NewTransferTx("bob", "key:alice", 40)
	require.Nil(err)
	AppendTestBlock(chain, *tx)

	balance, err = utxos.Balance("alice")
	require.Nil(err)
	assert.Equal(uint64(100), balance)
	balance, err = utxos.Balance("bob")
	require.Nil(err)
	assert.Equal(uint64(0), balance)

	stats, err := ValidateChain(chain, prefixAuthorizer{})
	require.Nil(err)
	assert.Equal(stats.Minted, stats.Unspent)
}
