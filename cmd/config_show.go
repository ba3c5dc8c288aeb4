package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftlog/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a
config file the defaults are shown.`,
	Example: `
  # Show active configuration
  shiftlog config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		printConfig(os.Stdout, cfg)
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "%s: %s\n", config.KeyStorageBackend, cfg.Storage.Backend)
	fmt.Fprintf(out, "%s: %s\n", config.KeyStoragePath, cfg.Storage.Path)
	if cfg.Storage.Backend == config.BackendSheet {
		fmt.Fprintf(out, "%s: %s\n", config.KeyStorageSheet, cfg.Storage.Sheet)
	}
	fmt.Fprintf(out, "%s: %d\n", config.KeyServerPort, cfg.Server.Port)
	fmt.Fprintf(out, "%s: %s\n", config.KeyLogLevel, cfg.Log.Level)
	fmt.Fprintf(out, "%s: %s\n", config.KeyLogFormat, cfg.Log.Format)
	fmt.Fprintf(out, "%s: %t\n", config.KeyParserTrailingCheckOut, cfg.Parser.TrailingCheckOut)
	fmt.Fprintf(out, "%s: %s\n", config.KeyParserIgnoreKeywords, strings.Join(cfg.Parser.IgnoreKeywords, ", "))
	fmt.Fprintf(out, "%s: %d\n", config.KeyDirectoryBranches, len(cfg.Directory.Branches))
	for i, branch := range cfg.Directory.Branches {
		fmt.Fprintf(out, "%s[%d]: %s\n", config.KeyDirectoryBranches, i, branch)
	}
	fmt.Fprintf(out, "%s: %d\n", config.KeyDirectoryNames, len(cfg.Directory.Names))
	for i, name := range cfg.Directory.Names {
		fmt.Fprintf(out, "%s[%d]: %s\n", config.KeyDirectoryNames, i, name)
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
