package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftlog/config"
)

var configCreateBackend string

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

--backend sheet writes a template that stores records in an .xlsx workbook
instead of SQLite. If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.shiftlog.yaml
  shiftlog config create

  # Create a config that keeps records in a workbook
  shiftlog --configFile ./.shiftlog.yaml config create --backend sheet
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(configCreateBackend)
	},
}

func saveDefaultConfig(backend string) error {
	switch backend {
	case "", config.BackendSQLite, config.BackendSheet:
	default:
		return fmt.Errorf("unsupported backend %q (supported: sqlite, sheet)", backend)
	}

	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath, config.ExampleYAMLFor(backend))
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().StringVar(&configCreateBackend, "backend", config.BackendSQLite, "Storage backend of the template: sqlite|sheet")
}
