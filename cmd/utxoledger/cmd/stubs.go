package cmd

import (
	"github.com/spf13/cobra"
)

// Wallet, indexing and networking entry points. They are declared so scripts
// can rely on the names but have no behavior.
var (
	createWalletCmd = &cobra.Command{
		Use:   "create_wallet",
		Short: "Create a wallet (not implemented)",
		Args:  cobra.NoArgs,
		RunE:  runNotImplemented,
	}
	listAddressesCmd = &cobra.Command{
		Use:   "list_addresses",
		Short: "List wallet addresses (not implemented)",
		Args:  cobra.NoArgs,
		RunE:  runNotImplemented,
	}
	reIndexCmd = &cobra.Command{
		Use:   "re_index",
		Short: "Rebuild the UTXO index (not implemented)",
		Args:  cobra.NoArgs,
		RunE:  runNotImplemented,
	}
	startNodeCmd = &cobra.Command{
		Use:   "start_node <port>",
		Short: "Start a peer node (not implemented)",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotImplemented,
	}
	startMinerCmd = &cobra.Command{
		Use:   "start_miner <port> <address>",
		Short: "Start a mining node (not implemented)",
		Args:  cobra.ExactArgs(2),
		RunE:  runNotImplemented,
	}
)

func init() {
	RootCmd.AddCommand(createWalletCmd, listAddressesCmd, reIndexCmd, startNodeCmd, startMinerCmd)
}

func runNotImplemented(cmd *cobra.Command, args []string) error {
	return errNotImplemented
}
