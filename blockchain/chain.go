package blockchain

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store"
	"github.com/thetatoken/utxoledger/store/database"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "blockchain"})

// TipKey is the reserved key holding the hash of the most recent block.
var TipKey = []byte("LAST")

// DefaultBlockCacheSize is the number of decoded blocks kept in memory.
const DefaultBlockCacheSize = 256

// ChainStore persists blocks keyed by their hash plus the tip pointer. It is
// the only writer of the underlying database.
type ChainStore struct {
	db    database.Database
	cache *lru.Cache

	mu  *sync.RWMutex
	tip string
}

func newChainStore(db database.Database, cacheSize int) (*ChainStore, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultBlockCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ChainStore{
		db:    db,
		cache: cache,
		mu:    &sync.RWMutex{},
	}, nil
}

// OpenOrCreate opens the chain in db. If db holds no tip, genesis is called
// to build the first block, which is persisted before the tip is set.
func OpenOrCreate(db database.Database, cacheSize int, genesis func() (*core.Block, error)) (*ChainStore, error) {
	cs, err := newChainStore(db, cacheSize)
	if err != nil {
		return nil, err
	}

	tip, err := cs.readTip()
	if err == nil {
		cs.tip = tip
		logger.WithFields(log.Fields{"tip": tip}).Debug("Opened existing chain")
		return cs, nil
	}
	if !errors.Is(err, core.ErrMissingChainState) {
		return nil, err
	}

	block, err := genesis()
	if err != nil {
		return nil, err
	}
	if !block.IsGenesis() || block.Height != 0 {
		return nil, core.NewError(core.ErrInvalidBlock, nil, "block %v is not a genesis block", block.Hash)
	}
	if err := block.Validate(); err != nil {
		return nil, err
	}
	if err := cs.commit(block); err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"hash": block.Hash}).Info("Created new chain")
	return cs, nil
}

// Open opens an existing chain. It fails with ErrMissingChainState when db
// has no tip.
func Open(db database.Database, cacheSize int) (*ChainStore, error) {
	cs, err := newChainStore(db, cacheSize)
	if err != nil {
		return nil, err
	}
	tip, err := cs.readTip()
	if err != nil {
		return nil, err
	}
	cs.tip = tip
	return cs, nil
}

func (cs *ChainStore) readTip() (string, error) {
	raw, err := cs.db.Get(TipKey)
	if err == store.ErrKeyNotFound {
		return "", core.NewError(core.ErrMissingChainState, nil, "tip key not found")
	}
	if err != nil {
		return "", core.NewError(core.ErrIO, err, "failed to read tip")
	}
	return string(raw), nil
}

// Tip returns the hash of the most recently appended block.
func (cs *ChainStore) Tip() string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.tip
}

// TipBlock returns the most recently appended block.
func (cs *ChainStore) TipBlock() (*core.Block, error) {
	return cs.FindBlock(cs.Tip())
}

// Height returns the height of the tip block.
func (cs *ChainStore) Height() (uint64, error) {
	block, err := cs.TipBlock()
	if err != nil {
		return 0, err
	}
	return block.Height, nil
}

// Append persists block and advances the tip to it. The block must be sealed
// and extend the current tip by one height.
func (cs *ChainStore) Append(block *core.Block) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if block.PrevHash != cs.tip {
		return core.NewError(core.ErrInvalidBlock, nil, "block %v links to %v, tip is %v", block.Hash, block.PrevHash, cs.tip)
	}
	parent, err := cs.FindBlock(cs.tip)
	if err != nil {
		return err
	}
	if block.Height != parent.Height+1 {
		return core.NewError(core.ErrInvalidBlock, nil, "block %v has height %d, expected %d", block.Hash, block.Height, parent.Height+1)
	}
	if err := block.Validate(); err != nil {
		return err
	}
	if err := cs.commit(block); err != nil {
		return err
	}
	logger.WithFields(log.Fields{"hash": block.Hash, "height": block.Height}).Info("Appended block")
	return nil
}

// commit writes the block bytes and only then the tip. A failure between the
// two leaves an unreferenced block and the previous tip intact.
func (cs *ChainStore) commit(block *core.Block) error {
	raw, err := core.EncodeBlock(block)
	if err != nil {
		return err
	}
	if err := cs.db.Put([]byte(block.Hash), raw); err != nil {
		return core.NewError(core.ErrIO, err, "failed to write block %v", block.Hash)
	}
	if err := cs.db.Put(TipKey, []byte(block.Hash)); err != nil {
		return core.NewError(core.ErrIO, err, "failed to advance tip to %v", block.Hash)
	}
	cs.cache.Add(block.Hash, block)
	cs.tip = block.Hash
	return nil
}

// Get returns the persisted bytes of the block with the given hash, or
// store.ErrKeyNotFound.
func (cs *ChainStore) Get(hash string) ([]byte, error) {
	if hash == string(TipKey) {
		return nil, store.ErrKeyNotFound
	}
	raw, err := cs.db.Get([]byte(hash))
	if err == store.ErrKeyNotFound {
		return nil, err
	}
	if err != nil {
		return nil, core.NewError(core.ErrIO, err, "failed to read block %v", hash)
	}
	return raw, nil
}

// FindBlock returns the decoded block with the given hash. Returned blocks
// are shared with the cache and must not be modified.
func (cs *ChainStore) FindBlock(hash string) (*core.Block, error) {
	if cached, ok := cs.cache.Get(hash); ok {
		return cached.(*core.Block), nil
	}
	raw, err := cs.Get(hash)
	if err != nil {
		return nil, errors.Wrapf(err, "block %v", hash)
	}
	block, err := core.DecodeBlock(raw)
	if err != nil {
		return nil, err
	}
	cs.cache.Add(hash, block)
	return block, nil
}

// Iterator returns a traversal from the current tip back to genesis.
func (cs *ChainStore) Iterator() *Iterator {
	return &Iterator{
		chain:   cs,
		current: cs.Tip(),
	}
}

// Close closes the underlying database.
func (cs *ChainStore) Close() {
	cs.db.Close()
}
