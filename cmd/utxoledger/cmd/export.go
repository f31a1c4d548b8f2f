package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thetatoken/utxoledger/snapshot"
)

// exportCmd represents the export command.
// Example:
//		utxoledger export chain.snappy
var exportCmd = &cobra.Command{
	Use:     "export <file>",
	Short:   "Export the chain to a compressed file",
	Example: `utxoledger export chain.snappy`,
	Args:    cobra.ExactArgs(1),
	RunE:    runExport,
}

// importCmd represents the import command.
// Example:
//		utxoledger --data /tmp/copy import chain.snappy
var importCmd = &cobra.Command{
	Use:     "import <file>",
	Short:   "Rebuild a chain from an exported file into an empty data directory",
	Example: `utxoledger --data /tmp/copy import chain.snappy`,
	Args:    cobra.ExactArgs(1),
	RunE:    runImport,
}

func init() {
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	tmp := args[0] + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	metadata, err := snapshot.ExportChain(l.Chain(), f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "failed to close export file")
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, args[0]); err != nil {
		return errors.Wrap(err, "failed to move export file into place")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d blocks, tip %v\n", metadata.Blocks, metadata.Tip)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to open export file")
	}
	defer f.Close()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	chain, err := snapshot.ImportChain(f, db, nil)
	if err != nil {
		return err
	}
	height, err := chain.Height()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported chain, tip %v at height %d\n", chain.Tip(), height)
	return nil
}
