package cmd

import (
	"path"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/ledger"
	"github.com/thetatoken/utxoledger/store/database"
	"github.com/thetatoken/utxoledger/store/database/backend"
)

// errNotImplemented is returned by declared commands that have no behavior.
var errNotImplemented = errors.New("not implemented")

func getDataPath() string {
	dataPath := viper.GetString(common.CfgDataPath)
	if dataPath == "" {
		dataPath = cfgPath
	}
	return dataPath
}

func openDatabase() (database.Database, error) {
	dbPath := path.Join(getDataPath(), "db", "main")
	return backend.NewDatabase(viper.GetString(common.CfgStorageBackend), dbPath)
}

// createLedger opens the ledger, creating a chain rewarding address if the
// database holds none.
func createLedger(address string) (*ledger.Ledger, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	l, err := ledger.Create(db, address, core.DefaultAuthorizer)
	if err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// openLedger opens an existing ledger.
func openLedger() (*ledger.Ledger, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	l, err := ledger.Open(db, core.DefaultAuthorizer)
	if err != nil {
		db.Close()
		if errors.Is(err, core.ErrMissingChainState) {
			return nil, errors.Wrap(err, "no chain found, run create first")
		}
		return nil, err
	}
	return l, nil
}

func parseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
