package ledger

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store/database/backend"
)

func newTestLedger(t *testing.T, address string) *Ledger {
	l, err := Create(backend.NewMemDatabase(), address, nil)
	require.Nil(t, err)
	return l
}

func chainLength(t *testing.T, l *Ledger) int {
	blocks, err := l.Blocks()
	require.Nil(t, err)
	return len(blocks)
}

func TestCreateRewardsAddress(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newTestLedger(t, "Alice")
	balance, err := l.GetBalance("Alice")
	require.Nil(err)
	assert.Equal(uint64(100), balance)
	assert.Equal(1, chainLength(t, l))
}

func TestCreateReusesExistingChain(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	db := backend.NewMemDatabase()
	l, err := Create(db, "Alice", nil)
	require.Nil(err)

	again, err := Create(db, "Bob", nil)
	require.Nil(err)
	assert.Equal(l.Chain().Tip(), again.Chain().Tip())

	balance, err := again.GetBalance("Bob")
	require.Nil(err)
	assert.Equal(uint64(0), balance)
}

func TestOpen(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	_, err := Open(backend.NewMemDatabase(), nil)
	assert.True(errors.Is(err, core.ErrMissingChainState))

	db := backend.NewMemDatabase()
	created, err := Create(db, "Alice", nil)
	require.Nil(err)
	opened, err := Open(db, nil)
	require.Nil(err)
	assert.Equal(created.Chain().Tip(), opened.Chain().Tip())
}

func TestTransfer(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newTestLedger(t, "Alice")
	genesis, err := l.Chain().TipBlock()
	require.Nil(err)

	block, err := l.Transfer("Alice", "Bob", 40)
	require.Nil(err)
	assert.Equal(2, chainLength(t, l))
	assert.Equal(genesis.Hash, block.PrevHash)
	assert.Equal(uint64(1), block.Height)
	require.Equal(1, len(block.Transactions))

	tx := block.Transactions[0]
	assert.Equal([]core.TxInput{{Txid: genesis.Transactions[0].ID, Vout: 0, Unlock: "Alice"}}, tx.Vin)
	assert.Equal([]core.TxOutput{{Value: 40, Lock: "Bob"}, {Value: 60, Lock: "Alice"}}, tx.Vout)

	alice, err := l.GetBalance("Alice")
	require.Nil(err)
	assert.Equal(uint64(60), alice)
	bob, err := l.GetBalance("Bob")
	require.Nil(err)
	assert.Equal(uint64(40), bob)

	stats, err := l.Validate()
	require.Nil(err)
	assert.Equal(stats.Minted, stats.Unspent)
}

func TestTransferInsufficientFunds(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newTestLedger(t, "Alice")
	tip := l.Chain().Tip()

	_, err := l.Transfer("Alice", "Bob", 1000)
	assert.True(errors.Is(err, core.ErrInsufficientFunds))
	var ife *core.InsufficientFundsError
	require.True(errors.As(err, &ife))
	assert.Equal(uint64(1000), ife.Requested)
	assert.Equal(uint64(100), ife.Available)

	assert.Equal(tip, l.Chain().Tip())
	assert.Equal(1, chainLength(t, l))

	_, err = l.Transfer("Alice", "Bob", 0)
	assert.True(errors.Is(err, core.ErrInvalidAmount))
	assert.Equal(1, chainLength(t, l))
}

func TestAddBlock(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newTestLedger(t, "Alice")
	reward, err := core.NewCoinbaseTx("Bob", "bonus")
	require.Nil(err)

	block, err := l.AddBlock([]core.Transaction{*reward})
	require.Nil(err)
	assert.Equal(block.Hash, l.Chain().Tip())
	assert.Nil(block.Validate())

	bob, err := l.GetBalance("Bob")
	require.Nil(err)
	assert.Equal(uint64(100), bob)

	empty, err := l.AddBlock(nil)
	require.Nil(err)
	assert.Equal(uint64(2), empty.Height)
}

func TestBalanceQueriesAreIdempotent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newTestLedger(t, "Alice")
	_, err := l.Transfer("Alice", "Bob", 30)
	require.Nil(err)

	first, err := l.UTXOSet().FindUTXO("Alice")
	require.Nil(err)
	second, err := l.UTXOSet().FindUTXO("Alice")
	require.Nil(err)
	assert.Equal(first, second)
}

func TestConcurrentTransfersDoNotFork(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newTestLedger(t, "Alice")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Transfer("Alice", "Bob", 10)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.Nil(err)
	}

	stats, err := l.Validate()
	require.Nil(err)
	assert.Equal(5, stats.Blocks)

	bob, err := l.GetBalance("Bob")
	require.Nil(err)
	assert.Equal(uint64(40), bob)
	alice, err := l.GetBalance("Alice")
	require.Nil(err)
	assert.Equal(uint64(60), alice)
}
