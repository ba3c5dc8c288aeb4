package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage shiftlog configuration file values.",
	Long: `Create, edit, display, and delete the shiftlog configuration file.

The configuration stores:
- storage.backend / storage.path / storage.sheet
- server.port
- log.level / log.format
- parser.trailing_checkout / parser.ignore_keywords
- directory.branches / directory.names (autocomplete lists for the editing UI)

Every key can be overridden by an environment variable, e.g. SHIFTLOG_STORAGE_PATH.`,
	Example: `
  # Create default config in $HOME/.shiftlog.yaml
  shiftlog config create

  # Show active config and source file
  shiftlog config show

  # Open active config in editor (creates example if missing)
  shiftlog config edit

  # Delete active config file
  shiftlog config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
