package cmd

import (
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thetatoken/utxoledger/common"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ledger configuration.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	RootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		return errors.Errorf("folder %v already exists", cfgPath)
	}

	if err := os.MkdirAll(cfgPath, 0700); err != nil {
		return errors.Wrap(err, "failed to create config folder")
	}

	if err := common.WriteInitialConfig(path.Join(cfgPath, "config.yaml")); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}
