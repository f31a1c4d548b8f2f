package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mineFlag bool

// sendCmd represents the send command.
// Example:
//		utxoledger send alice bob 30 --mine
var sendCmd = &cobra.Command{
	Use:     "send <from> <to> <amount>",
	Short:   "Transfer value between addresses",
	Long:    `Transfer value between addresses. With --mine the transfer is sealed into a new block locally.`,
	Example: `utxoledger send alice bob 30 --mine`,
	Args:    cobra.ExactArgs(3),
	RunE:    runSend,
}

func init() {
	sendCmd.Flags().BoolVar(&mineFlag, "mine", false, "Mine a block with the transfer immediately")
	RootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	from, to := args[0], args[1]
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	if !mineFlag {
		tx, err := l.UTXOSet().NewTransferTx(from, to, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Transaction %v created but no node is running to relay it; use --mine to commit it locally\n", tx.ID)
		return nil
	}

	block, err := l.Transfer(from, to, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Success! Block %v at height %d\n", block.Hash, block.Height)
	return nil
}
