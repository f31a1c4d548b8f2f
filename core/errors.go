package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced by the ledger. Use errors.Is to classify.
var (
	ErrIO                = errors.New("io failure")
	ErrEncoding          = errors.New("encoding failure")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMissingChainState = errors.New("no existing chain state found")
	ErrCorruptChainLink  = errors.New("corrupt chain link")
	ErrMiningExhausted   = errors.New("nonce space exhausted")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidBlock      = errors.New("invalid block")
)

// Error tags an underlying error with one of the kinds above.
type Error struct {
	Kind error
	Err  error
}

// NewError wraps err with a message and tags it with kind.
func NewError(kind error, err error, format string, args ...interface{}) error {
	if err == nil {
		return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
	}
	return &Error{Kind: kind, Err: errors.Wrapf(err, format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// InsufficientFundsError reports a transfer that exceeds the spendable
// outputs of an address.
type InsufficientFundsError struct {
	Address   string
	Requested uint64
	Available uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %v: requested %d, available %d, short by %d",
		e.Address, e.Requested, e.Available, e.Shortfall())
}

// Shortfall is the amount missing to cover the request.
func (e *InsufficientFundsError) Shortfall() uint64 {
	if e.Requested < e.Available {
		return 0
	}
	return e.Requested - e.Available
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
