package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by shiftlog.

The command asks for confirmation (type exactly "Y"). If no configuration
file is active, the command returns an error.`,
	Example: `
  # Delete active config
  shiftlog config delete

  # Delete config at a custom path
  shiftlog --configFile ./custom-shiftlog.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(viper.ConfigFileUsed())
	},
}

func deleteConfigFile(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("no configuration file found")
	}

	confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, "configuration file "+configPath)
	if err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("delete aborted: confirmation was not 'Y'")
	}

	if err := os.Remove(configPath); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Printf("Configuration file successfully deleted: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}
