package blockchain

import (
	"github.com/thetatoken/utxoledger/core"
)

// ChainStats summarizes a validated chain.
type ChainStats struct {
	Blocks       int
	Transactions int
	Minted       uint64 // total value created by coinbase transactions
	Unspent      uint64 // total value of all unspent outputs
}

type outpoint struct {
	txid  string
	index int
}

// ValidateChain walks the whole chain and checks that every block is sealed
// and linked to its predecessor at the previous height, that genesis has no
// predecessor, and that transfers only spend existing unspent outputs owned
// by the spender without creating or destroying value.
func ValidateChain(chain *ChainStore, auth core.Authorizer) (*ChainStats, error) {
	if auth == nil {
		auth = core.DefaultAuthorizer
	}

	blocks, err := chain.Blocks()
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, core.NewError(core.ErrMissingChainState, nil, "chain is empty")
	}

	for i, block := range blocks {
		if err := block.Validate(); err != nil {
			return nil, err
		}
		if i+1 < len(blocks) {
			parent := blocks[i+1]
			if block.PrevHash != parent.Hash || block.Height != parent.Height+1 {
				return nil, core.NewError(core.ErrCorruptChainLink, nil,
					"block %v at height %d does not extend %v at height %d", block.Hash, block.Height, parent.Hash, parent.Height)
			}
			continue
		}
		if !block.IsGenesis() || block.Height != 0 {
			return nil, core.NewError(core.ErrCorruptChainLink, nil, "chain ends at non-genesis block %v", block.Hash)
		}
	}

	stats := &ChainStats{Blocks: len(blocks)}
	utxos := make(map[outpoint]core.TxOutput)
	seen := make(map[string]bool)
	for i := len(blocks) - 1; i >= 0; i-- {
		for j := range blocks[i].Transactions {
			tx := &blocks[i].Transactions[j]
			if seen[tx.ID] {
				return nil, core.NewError(core.ErrInvalidBlock, nil, "transaction %v in block %v reuses an existing id", tx.ID, blocks[i].Hash)
			}
			seen[tx.ID] = true
			if err := applyTx(tx, utxos, auth, stats); err != nil {
				return nil, err
			}
			stats.Transactions++
		}
	}
	for _, out := range utxos {
		stats.Unspent += out.Value
	}
	if stats.Unspent != stats.Minted {
		return nil, core.NewError(core.ErrInvalidBlock, nil, "minted %d but %d remains unspent", stats.Minted, stats.Unspent)
	}
	return stats, nil
}

func applyTx(tx *core.Transaction, utxos map[outpoint]core.TxOutput, auth core.Authorizer, stats *ChainStats) error {
	id, err := tx.CalculateID()
	if err != nil {
		return err
	}
	if id != tx.ID {
		return core.NewError(core.ErrInvalidBlock, nil, "transaction %v has content hash %v", tx.ID, id)
	}

	if tx.IsCoinbase() {
		stats.Minted += tx.TotalOutput()
	} else {
		var in uint64
		for _, input := range tx.Vin {
			key := outpoint{input.Txid, input.Vout}
			out, ok := utxos[key]
			if !ok {
				return core.NewError(core.ErrInvalidBlock, nil, "transaction %v spends unknown or spent output %v:%d", tx.ID, input.Txid, input.Vout)
			}
			if !auth.Verify(out.Lock, input.Unlock) {
				return core.NewError(core.ErrInvalidBlock, nil, "transaction %v cannot unlock output %v:%d", tx.ID, input.Txid, input.Vout)
			}
			in += out.Value
			delete(utxos, key)
		}
		if in != tx.TotalOutput() {
			return core.NewError(core.ErrInvalidBlock, nil, "transaction %v spends %d but creates %d", tx.ID, in, tx.TotalOutput())
		}
	}

	for idx, out := range tx.Vout {
		utxos[outpoint{tx.ID, idx}] = out
	}
	return nil
}
