package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var verboseFlag bool

// printChainCmd represents the print_chain command.
var printChainCmd = &cobra.Command{
	Use:   "print_chain",
	Short: "Print all blocks, newest first",
	Args:  cobra.NoArgs,
	RunE:  runPrintChain,
}

func init() {
	printChainCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "Dump every field of each block")
	RootCmd.AddCommand(printChainCmd)
}

func runPrintChain(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	out := cmd.OutOrStdout()
	it := l.Chain().Iterator()
	for block, ok := it.Next(); ok; block, ok = it.Next() {
		if verboseFlag {
			spew.Fdump(out, block)
			continue
		}
		fmt.Fprintf(out, "Block %d %v\n  prev: %v\n  timestamp: %d nonce: %d\n",
			block.Height, block.Hash, block.PrevHash, block.Timestamp, block.Nonce)
		for i := range block.Transactions {
			fmt.Fprintf(out, "  %v\n", block.Transactions[i].String())
		}
	}
	return it.Err()
}
