package backend

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/store/database"
)

const (
	KindLevelDB = "leveldb"
	KindBadger  = "badger"
	KindMemDB   = "memdb"
)

// NewDatabase opens the backend named by kind under dir, using the storage
// settings from config.
func NewDatabase(kind string, dir string) (database.Database, error) {
	syncWrites := viper.GetBool(common.CfgStorageSyncWrites)

	switch kind {
	case KindMemDB:
		return NewMemDatabase(), nil
	case KindLevelDB, KindBadger:
	default:
		return nil, errors.Errorf("unknown storage backend: %v", kind)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %v", dir)
	}

	logger.WithFields(log.Fields{"backend": kind, "path": dir, "sync": syncWrites}).Debug("Opening database")

	if kind == KindBadger {
		return NewBadgerDatabase(dir, syncWrites)
	}
	return NewLDBDatabase(dir,
		viper.GetInt(common.CfgStorageLevelDBCacheMB),
		viper.GetInt(common.CfgStorageLevelDBHandles),
		syncWrites)
}
