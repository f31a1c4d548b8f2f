package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// balanceCmd represents the get_balance command.
// Example:
//		utxoledger get_balance alice
var balanceCmd = &cobra.Command{
	Use:     "get_balance <address>",
	Short:   "Print the balance of address",
	Example: `utxoledger get_balance alice`,
	Args:    cobra.ExactArgs(1),
	RunE:    runBalance,
}

func init() {
	RootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	balance, err := l.GetBalance(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Balance of '%s': %d\n", args[0], balance)
	return nil
}
