package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/ledger"
	"github.com/thetatoken/utxoledger/store/database/backend"
)

func newTestServer(t *testing.T) (*LedgerRPCServer, *ledger.Ledger) {
	l, err := ledger.Create(backend.NewMemDatabase(), "alice", nil)
	require.Nil(t, err)
	_, err = l.Transfer("alice", "bob", 30)
	require.Nil(t, err)
	return NewLedgerRPCServer(l), l
}

func get(t *testing.T, handler http.Handler, path string, v interface{}) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if v != nil && rec.Code == http.StatusOK {
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), v))
	}
	return rec.Code
}

func TestStatus(t *testing.T) {
	assert := assert.New(t)
	s, l := newTestServer(t)

	var result GetStatusResult
	assert.Equal(http.StatusOK, get(t, s.Handler(), "/status", &result))
	assert.Equal(l.Chain().Tip(), result.Tip)
	assert.Equal(common.JSONUint64(1), result.Height)
}

func TestBalance(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)

	var result GetBalanceResult
	assert.Equal(http.StatusOK, get(t, s.Handler(), "/balance/bob", &result))
	assert.Equal("bob", result.Address)
	assert.Equal(common.JSONUint64(30), result.Balance)

	assert.Equal(http.StatusOK, get(t, s.Handler(), "/balance/alice", &result))
	assert.Equal(common.JSONUint64(70), result.Balance)

	assert.Equal(http.StatusOK, get(t, s.Handler(), "/balance/nobody", &result))
	assert.Equal(common.JSONUint64(0), result.Balance)
}

func TestBlocks(t *testing.T) {
	assert := assert.New(t)
	s, l := newTestServer(t)

	var result GetBlocksResult
	assert.Equal(http.StatusOK, get(t, s.Handler(), "/blocks", &result))
	assert.Equal(2, len(result.Blocks))
	assert.Equal(l.Chain().Tip(), result.Blocks[0].Hash)
	assert.Equal(result.Blocks[1].Hash, result.Blocks[0].PrevHash)
	assert.Equal("", result.Blocks[1].PrevHash)

	assert.Equal(http.StatusOK, get(t, s.Handler(), "/blocks?limit=1", &result))
	assert.Equal(1, len(result.Blocks))

	assert.Equal(http.StatusBadRequest, get(t, s.Handler(), "/blocks?limit=zero", nil))
}

func TestBlockByHash(t *testing.T) {
	assert := assert.New(t)
	s, l := newTestServer(t)

	var block core.Block
	assert.Equal(http.StatusOK, get(t, s.Handler(), "/blocks/"+l.Chain().Tip(), &block))
	assert.Equal(l.Chain().Tip(), block.Hash)
	assert.Equal(1, len(block.Transactions))

	assert.Equal(http.StatusNotFound, get(t, s.Handler(), "/blocks/0000deadbeef", nil))
	assert.Equal(http.StatusNotFound, get(t, s.Handler(), "/blocks/LAST", nil))
}

func TestStartStop(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	viper.Set(common.CfgRPCPort, "0")
	defer viper.Set(common.CfgRPCPort, "16888")

	s, _ := newTestServer(t)
	require.Nil(s.Start(context.Background()))

	resp, err := http.Get("http://" + s.Addr().String() + "/status")
	require.Nil(err)
	resp.Body.Close()
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))

	s.Stop()
	s.Wait()
}
