package blockchain

import (
	log "github.com/sirupsen/logrus"

	"github.com/thetatoken/utxoledger/core"
)

// UnspentOutput is an output no later input has consumed.
type UnspentOutput struct {
	Txid   string
	Index  int
	Output core.TxOutput
}

// UTXOSet derives balances and spendable outputs by scanning the chain.
type UTXOSet struct {
	chain *ChainStore
	auth  core.Authorizer
}

// NewUTXOSet creates a UTXOSet over chain. A nil auth falls back to
// core.DefaultAuthorizer.
func NewUTXOSet(chain *ChainStore, auth core.Authorizer) *UTXOSet {
	if auth == nil {
		auth = core.DefaultAuthorizer
	}
	return &UTXOSet{chain: chain, auth: auth}
}

// FindUnspentOutputs scans the chain newest first and returns the outputs of
// address not consumed by any input.
//
// Every input marks the outpoint it consumes as spent, whoever claimed it.
// Spends are recorded when the spending transaction is visited, and only
// affect transactions visited afterwards. Since a spend always comes later in
// the chain than the output it consumes, the newest-first order guarantees
// the spend is seen before the output. Transactions inside a block are
// visited last to first for the same reason.
func (u *UTXOSet) FindUnspentOutputs(address string) ([]UnspentOutput, error) {
	spent := make(map[string]map[int]bool)
	unspent := []UnspentOutput{}

	it := u.chain.Iterator()
	for block, ok := it.Next(); ok; block, ok = it.Next() {
		for i := len(block.Transactions) - 1; i >= 0; i-- {
			tx := &block.Transactions[i]

			for idx, out := range tx.Vout {
				if spent[tx.ID][idx] {
					continue
				}
				if out.IsLockedWith(u.auth, address) {
					unspent = append(unspent, UnspentOutput{Txid: tx.ID, Index: idx, Output: out})
				}
			}

			if tx.IsCoinbase() {
				continue
			}
			for _, in := range tx.Vin {
				if spent[in.Txid] == nil {
					spent[in.Txid] = make(map[int]bool)
				}
				spent[in.Txid][in.Vout] = true
			}
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return unspent, nil
}

// FindUnspentTransactions returns the transactions holding at least one
// unspent output of address, newest first.
func (u *UTXOSet) FindUnspentTransactions(address string) ([]*core.Transaction, error) {
	unspent, err := u.FindUnspentOutputs(address)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	txids := []string{}
	for _, uo := range unspent {
		if !seen[uo.Txid] {
			seen[uo.Txid] = true
			txids = append(txids, uo.Txid)
		}
	}
	if len(txids) == 0 {
		return []*core.Transaction{}, nil
	}

	txs := make([]*core.Transaction, 0, len(txids))
	byID := make(map[string]*core.Transaction, len(txids))
	it := u.chain.Iterator()
	for block, ok := it.Next(); ok && len(byID) < len(txids); block, ok = it.Next() {
		for i := range block.Transactions {
			tx := &block.Transactions[i]
			if seen[tx.ID] {
				byID[tx.ID] = tx
			}
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	for _, txid := range txids {
		if tx, ok := byID[txid]; ok {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// FindUTXO returns the unspent outputs of address.
func (u *UTXOSet) FindUTXO(address string) ([]core.TxOutput, error) {
	unspent, err := u.FindUnspentOutputs(address)
	if err != nil {
		return nil, err
	}
	outputs := make([]core.TxOutput, 0, len(unspent))
	for _, uo := range unspent {
		outputs = append(outputs, uo.Output)
	}
	return outputs, nil
}

// Balance sums the unspent outputs of address.
func (u *UTXOSet) Balance(address string) (uint64, error) {
	outputs, err := u.FindUTXO(address)
	if err != nil {
		return 0, err
	}
	var balance uint64
	for _, out := range outputs {
		balance += out.Value
	}
	return balance, nil
}

// selectSpendable accumulates unspent outputs of address in scan order and
// stops as soon as amount is covered.
func (u *UTXOSet) selectSpendable(address string, amount uint64) (uint64, []UnspentOutput, error) {
	unspent, err := u.FindUnspentOutputs(address)
	if err != nil {
		return 0, nil, err
	}

	var accumulated uint64
	selected := []UnspentOutput{}
	for _, uo := range unspent {
		accumulated += uo.Output.Value
		selected = append(selected, uo)
		if accumulated >= amount {
			break
		}
	}
	return accumulated, selected, nil
}

// FindSpendableOutputs returns the accumulated value and the selected output
// indices per transaction id. The accumulated value is below amount only if
// every unspent output of address was selected.
func (u *UTXOSet) FindSpendableOutputs(address string, amount uint64) (uint64, map[string][]int, error) {
	accumulated, selected, err := u.selectSpendable(address, amount)
	if err != nil {
		return 0, nil, err
	}
	selection := make(map[string][]int)
	for _, uo := range selected {
		selection[uo.Txid] = append(selection[uo.Txid], uo.Index)
	}
	return accumulated, selection, nil
}

// NewTransferTx builds a transaction paying amount from one address to
// another. Inputs carry from as the claim; to is used as the lock of the
// payment. Change is locked with the same credential as the first spent
// output when the selected outputs exceed amount.
func (u *UTXOSet) NewTransferTx(from string, to string, amount uint64) (*core.Transaction, error) {
	if amount == 0 {
		return nil, core.NewError(core.ErrInvalidAmount, nil, "transfer amount must be positive")
	}

	accumulated, selected, err := u.selectSpendable(from, amount)
	if err != nil {
		return nil, err
	}
	if accumulated < amount {
		logger.WithFields(log.Fields{"from": from, "requested": amount, "available": accumulated}).Warn("Not enough balance")
		return nil, &core.InsufficientFundsError{Address: from, Requested: amount, Available: accumulated}
	}

	tx := &core.Transaction{
		Vin: make([]core.TxInput, 0, len(selected)),
		Vout: []core.TxOutput{{
			Value: amount,
			Lock:  to,
		}},
	}
	for _, uo := range selected {
		tx.Vin = append(tx.Vin, core.TxInput{
			Txid:   uo.Txid,
			Vout:   uo.Index,
			Unlock: from,
		})
	}
	if accumulated > amount {
		tx.Vout = append(tx.Vout, core.TxOutput{
			Value: accumulated - amount,
			Lock:  selected[0].Output.Lock,
		})
	}
	if err := tx.SetID(); err != nil {
		return nil, err
	}
	return tx, nil
}
