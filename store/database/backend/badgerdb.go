package backend

import (
	"github.com/dgraph-io/badger"

	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/store"
)

// BadgerDatabase a BadgerDB wrapped object.
type BadgerDatabase struct {
	dir string
	db  *badger.DB
}

// NewBadgerDatabase returns a BadgerDB wrapped object. When syncWrites is set
// each committed transaction is fsynced before the call returns.
func NewBadgerDatabase(dirname string, syncWrites bool) (*BadgerDatabase, error) {
	opts := badger.DefaultOptions(dirname)
	opts.Dir = dirname
	opts.ValueDir = dirname
	opts.SyncWrites = syncWrites
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerDatabase{
		dir: dirname,
		db:  db,
	}, nil
}

// Path returns the path to the database directory.
func (db *BadgerDatabase) Path() string {
	return db.dir
}

// Put puts the given key / value to the database
func (db *BadgerDatabase) Put(key []byte, value []byte) error {
	return db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, common.CopyBytes(value))
	})
}

// Has checks if the given key is present in the database
func (db *BadgerDatabase) Has(key []byte) (bool, error) {
	err := db.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if err != nil {
		if err == badger.ErrKeyNotFound || err == badger.ErrEmptyKey {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get returns the given key if it's present.
func (db *BadgerDatabase) Get(key []byte) ([]byte, error) {
	var value []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound || err == badger.ErrEmptyKey {
				return store.ErrKeyNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			value = common.CopyBytes(val)
			return nil
		})
	})
	return value, err
}

// Delete deletes the key from the database
func (db *BadgerDatabase) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		if err == badger.ErrKeyNotFound || err == badger.ErrEmptyKey {
			return store.ErrKeyNotFound
		}
	}
	return err
}

func (db *BadgerDatabase) Close() {
	if err := db.db.Close(); err != nil {
		logger.Errorf("Failed to close badger database, err: %v", err)
	}
}
