package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

/*
Transaction moves value between addresses by consuming earlier outputs.

 - Coinbase transaction mints Reward to an address and has a single input
   with an empty Txid and Vout == -1.
 - Transfer transaction spends outputs of the sender and pays the recipient,
   returning any change to the sender.
*/

// Reward is the value minted by a coinbase transaction.
const Reward uint64 = 100

// CoinbaseVout marks the input of a coinbase transaction.
const CoinbaseVout = -1

//-----------------------------------------------------------------------------

// TxInput references an output of an earlier transaction.
type TxInput struct {
	Txid   string `json:"txid"`
	Vout   int    `json:"vout"`
	Unlock string `json:"unlock"`
}

// txInputRLP is the wire form of TxInput. rlp has no signed integers, so the
// output index is shifted by one and the coinbase sentinel encodes as zero.
type txInputRLP struct {
	Txid   string
	Vout   uint64
	Unlock string
}

// EncodeRLP implements rlp.Encoder.
func (in TxInput) EncodeRLP(w io.Writer) error {
	if in.Vout < CoinbaseVout {
		return fmt.Errorf("invalid output index %d", in.Vout)
	}
	return rlp.Encode(w, txInputRLP{
		Txid:   in.Txid,
		Vout:   uint64(in.Vout + 1),
		Unlock: in.Unlock,
	})
}

// DecodeRLP implements rlp.Decoder.
func (in *TxInput) DecodeRLP(s *rlp.Stream) error {
	var raw txInputRLP
	if err := s.Decode(&raw); err != nil {
		return err
	}
	in.Txid = raw.Txid
	in.Vout = int(raw.Vout) - 1
	in.Unlock = raw.Unlock
	return nil
}

func (in TxInput) String() string {
	return fmt.Sprintf("TxInput{%v:%d, %v}", in.Txid, in.Vout, in.Unlock)
}

//-----------------------------------------------------------------------------

// TxOutput is a discrete unit of value locked to an address.
type TxOutput struct {
	Value uint64 `json:"value"`
	Lock  string `json:"lock"`
}

// IsLockedWith returns whether address owns this output.
func (out TxOutput) IsLockedWith(auth Authorizer, address string) bool {
	return auth.Verify(out.Lock, address)
}

func (out TxOutput) String() string {
	return fmt.Sprintf("TxOutput{%d -> %v}", out.Value, out.Lock)
}

//-----------------------------------------------------------------------------

// Transaction is identified by the hash of its content with ID cleared.
type Transaction struct {
	ID   string     `json:"id"`
	Vin  []TxInput  `json:"vin"`
	Vout []TxOutput `json:"vout"`
}

// NewCoinbaseTx creates the transaction minting Reward to address. An empty
// memo is replaced with "Reward to '<to>'".
func NewCoinbaseTx(to string, memo string) (*Transaction, error) {
	if memo == "" {
		memo = fmt.Sprintf("Reward to '%s'", to)
	}
	tx := &Transaction{
		Vin: []TxInput{{
			Txid:   "",
			Vout:   CoinbaseVout,
			Unlock: memo,
		}},
		Vout: []TxOutput{{
			Value: Reward,
			Lock:  to,
		}},
	}
	if err := tx.SetID(); err != nil {
		return nil, err
	}
	return tx, nil
}

// IsCoinbase returns whether tx mints value rather than spending it.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Vin) == 1 && tx.Vin[0].Txid == "" && tx.Vin[0].Vout == CoinbaseVout
}

// CalculateID hashes the rlp encoding of tx with ID cleared.
func (tx *Transaction) CalculateID() (string, error) {
	content := Transaction{Vin: tx.Vin, Vout: tx.Vout}
	raw, err := rlp.EncodeToBytes(&content)
	if err != nil {
		return "", NewError(ErrEncoding, err, "failed to encode transaction")
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// SetID finalizes the transaction id. It must be called after Vin and Vout
// are complete.
func (tx *Transaction) SetID() error {
	id, err := tx.CalculateID()
	if err != nil {
		return err
	}
	tx.ID = id
	return nil
}

// TotalOutput sums the value of all outputs.
func (tx *Transaction) TotalOutput() uint64 {
	var total uint64
	for _, out := range tx.Vout {
		total += out.Value
	}
	return total
}

func (tx *Transaction) String() string {
	if tx == nil {
		return "nil"
	}
	return fmt.Sprintf("Transaction{ID: %v, Vin: %v, Vout: %v}", tx.ID, tx.Vin, tx.Vout)
}
