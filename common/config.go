package common

import (
	"math"

	"github.com/spf13/viper"
)

const (
	// CfgConfigPath defines custom config path
	CfgConfigPath = "config.path"
	// CfgDataPath defines custom data path, defaults to the config path
	CfgDataPath = "data.path"

	// CfgStorageBackend selects the key/value backend: leveldb, badger or memdb.
	CfgStorageBackend = "storage.backend"
	// CfgStorageSyncWrites forces every write to be flushed to disk before it returns.
	CfgStorageSyncWrites = "storage.syncWrites"
	// CfgStorageLevelDBCacheMB sets the LevelDB block cache size in MiB.
	CfgStorageLevelDBCacheMB = "storage.levelDBCacheMB"
	// CfgStorageLevelDBHandles sets the number of open files LevelDB may keep.
	CfgStorageLevelDBHandles = "storage.levelDBHandles"
	// CfgStorageBlockCacheSize sets the number of decoded blocks kept in memory.
	CfgStorageBlockCacheSize = "storage.blockCacheSize"

	// CfgMiningMaxNonce bounds the proof-of-work nonce search.
	CfgMiningMaxNonce = "mining.maxNonce"

	// CfgRPCAddress sets the binding address of RPC service.
	CfgRPCAddress = "rpc.address"
	// CfgRPCPort sets the port of RPC service.
	CfgRPCPort = "rpc.port"
	// CfgRPCMaxConnections limits concurrent connections accepted by RPC server.
	CfgRPCMaxConnections = "rpc.maxConnections"
	// CfgRPCTimeoutSecs set a timeout for RPC.
	CfgRPCTimeoutSecs = "rpc.timeoutSecs"

	// CfgLogLevels sets the log level, per module: "*:info,chain:debug".
	CfgLogLevels = "log.levels"
)

// InitialConfig is the default configuartion produced by init command.
const InitialConfig = `# UTXO ledger configuration
storage:
  backend: leveldb
  syncWrites: true
rpc:
  port: 16888
log:
  levels: "*:info"
`

func init() {
	viper.SetDefault(CfgStorageBackend, "leveldb")
	viper.SetDefault(CfgStorageSyncWrites, true)
	viper.SetDefault(CfgStorageLevelDBCacheMB, 16)
	viper.SetDefault(CfgStorageLevelDBHandles, 16)
	viper.SetDefault(CfgStorageBlockCacheSize, 256)

	viper.SetDefault(CfgMiningMaxNonce, uint64(math.MaxUint32))

	viper.SetDefault(CfgRPCAddress, "127.0.0.1")
	viper.SetDefault(CfgRPCPort, "16888")
	viper.SetDefault(CfgRPCMaxConnections, 200)
	viper.SetDefault(CfgRPCTimeoutSecs, 60)

	viper.SetDefault(CfgLogLevels, "*:info")
}

// WriteInitialConfig writes initial config file to file system.
func WriteInitialConfig(filePath string) error {
	return WriteFileAtomic(filePath, []byte(InitialConfig), 0600)
}
