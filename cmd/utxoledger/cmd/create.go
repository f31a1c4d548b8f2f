package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createCmd represents the create command.
// Example:
//		utxoledger create alice
var createCmd = &cobra.Command{
	Use:     "create <address>",
	Short:   "Create a chain whose genesis block rewards address",
	Example: `utxoledger create alice`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCreate,
}

func init() {
	RootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	l, err := createLedger(args[0])
	if err != nil {
		return err
	}
	defer l.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Chain ready, tip %v\n", l.Chain().Tip())
	return nil
}
