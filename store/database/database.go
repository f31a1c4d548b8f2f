package database

// Database wraps all raw key/value database operations. Get returns
// store.ErrKeyNotFound when the key is absent.
type Database interface {
	Put(key []byte, value []byte) error
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Close()
}
