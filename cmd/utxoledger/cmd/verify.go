package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// verifyCmd represents the verify_chain command.
var verifyCmd = &cobra.Command{
	Use:   "verify_chain",
	Short: "Check seals, links and value conservation of the whole chain",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	stats, err := l.Validate()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Chain is valid: %d blocks, %d transactions, %d minted, %d unspent\n",
		stats.Blocks, stats.Transactions, stats.Minted, stats.Unspent)
	return nil
}
