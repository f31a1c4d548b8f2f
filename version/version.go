package version

// Set at build time via -ldflags "-X github.com/thetatoken/utxoledger/version.GitHash=..."
var (
	GitHash   = "unknown"
	Timestamp = "unknown"
)
