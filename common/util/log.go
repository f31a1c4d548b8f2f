package util

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/thetatoken/utxoledger/common"
)

const defaultLogLevel = "info"

var (
	logLevels map[string]string
	mu        sync.Mutex
)

func init() {
	setFormatter(log.StandardLogger())
}

func setFormatter(logger *log.Logger) {
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logger.SetFormatter(customFormatter)
}

// InitLog reads log levels from config and applies the default level to the
// standard logger.
func InitLog() {
	mu.Lock()
	defer mu.Unlock()

	logLevels = parseLogLevelConfig(viper.GetString(common.CfgLogLevels))
	level, err := log.ParseLevel(logLevels["*"])
	if err != nil {
		log.WithFields(log.Fields{"err": err, "level": logLevels["*"]}).Warn("Invalid log level")
		return
	}
	log.SetLevel(level)
}

// parseLogLevelConfig parses "*:error,chain:debug" into a module to level map.
func parseLogLevelConfig(cfg string) map[string]string {
	ret := map[string]string{"*": defaultLogLevel}
	for _, item := range strings.Split(cfg, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		ret[parts[0]] = parts[1]
	}
	return ret
}

// GetLoggerForModule returns a logger tagged with the module prefix whose level
// follows the per-module config, falling back to "*".
func GetLoggerForModule(module string) *log.Entry {
	mu.Lock()
	defer mu.Unlock()

	if logLevels == nil {
		logLevels = parseLogLevelConfig(viper.GetString(common.CfgLogLevels))
	}
	levelStr, ok := logLevels[module]
	if !ok {
		levelStr = logLevels["*"]
	}
	level, err := log.ParseLevel(levelStr)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.New()
	setFormatter(logger)
	logger.SetLevel(level)
	return logger.WithFields(log.Fields{"prefix": module})
}
