package store

import "github.com/pkg/errors"

// ErrKeyNotFound for missing key in KV store.
var ErrKeyNotFound = errors.New("KeyNotFound")
