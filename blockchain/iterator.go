package blockchain

import (
	"github.com/pkg/errors"

	"github.com/thetatoken/utxoledger/core"
)

// Iterator walks the chain newest first. Usage:
//
//	it := chain.Iterator()
//	for block, ok := it.Next(); ok; block, ok = it.Next() {
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator struct {
	chain   *ChainStore
	current string
	err     error

	yielded    bool
	lastHeight uint64
}

// Next returns the next older block. It returns false once genesis has been
// yielded or a link could not be followed; Err tells the two apart.
func (it *Iterator) Next() (*core.Block, bool) {
	if it.err != nil || it.current == "" {
		return nil, false
	}

	hash := it.current
	block, err := it.chain.FindBlock(hash)
	if err != nil {
		it.current = ""
		if errors.Is(err, core.ErrIO) {
			it.err = err
		} else {
			it.err = core.NewError(core.ErrCorruptChainLink, err, "failed to follow link to %v", hash)
		}
		return nil, false
	}
	if block.Hash != hash {
		it.current = ""
		it.err = core.NewError(core.ErrCorruptChainLink, nil, "block stored under %v has hash %v", hash, block.Hash)
		return nil, false
	}

	if it.yielded && block.Height >= it.lastHeight {
		it.current = ""
		it.err = core.NewError(core.ErrCorruptChainLink, nil, "block %v at height %d does not precede height %d", hash, block.Height, it.lastHeight)
		return nil, false
	}

	it.yielded = true
	it.lastHeight = block.Height
	it.current = block.PrevHash
	return block, true
}

// Err returns nil if the traversal ended at genesis, otherwise the error
// that stopped it.
func (it *Iterator) Err() error {
	return it.err
}

// Blocks collects the whole chain, newest first.
func (cs *ChainStore) Blocks() ([]*core.Block, error) {
	blocks := []*core.Block{}
	it := cs.Iterator()
	for block, ok := it.Next(); ok; block, ok = it.Next() {
		blocks = append(blocks, block)
	}
	return blocks, it.Err()
}
