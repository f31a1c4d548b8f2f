package main

import (
	"github.com/thetatoken/utxoledger/cmd/utxoledger/cmd"
)

func main() {
	cmd.Execute()
}
