package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftlog/config"
)

var (
	configEditBackend string
	configEditEditor  string
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active shiftlog config file in an editor and validate it afterwards.

The editor is --editor, then $VISUAL, then $EDITOR, then vi. A missing config
file is first created from the --backend template. When the edited file does
not validate, the previous content is written back so that serve and import
keep working.`,
	Example: `
  # Edit active config
  shiftlog config edit

  # Start a sheet-backed config in nano
  shiftlog config edit --backend sheet --editor nano
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		switch configEditBackend {
		case config.BackendSQLite, config.BackendSheet:
		default:
			return fmt.Errorf("unsupported backend %q (supported: sqlite, sheet)", configEditBackend)
		}

		created, err := ensureConfigFileWithTemplate(configPath, config.ExampleYAMLFor(configEditBackend))
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created %s example config at: %s\n", configEditBackend, configPath)
		}

		editor := resolveEditor(configEditEditor, os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		cfg, err := editConfigFile(configPath, editor)
		if err != nil {
			return err
		}

		fmt.Printf("Configuration saved and validated: %s\n", configPath)
		printConfig(os.Stdout, cfg)
		return nil
	},
}

// editConfigFile runs editor on path and validates the result. An invalid
// edit is rolled back to the content the file had before.
func editConfigFile(path, editor string) (*config.Config, error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	editorCommand, err := buildEditorCommand(editor, path)
	if err != nil {
		return nil, err
	}
	editorCommand.Stdin = os.Stdin
	editorCommand.Stdout = os.Stdout
	editorCommand.Stderr = os.Stderr
	if err := editorCommand.Run(); err != nil {
		return nil, fmt.Errorf("run editor %q: %w", editor, err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edited config %s: %w", path, err)
	}
	cfg, validateErr := config.ValidateYAMLContent(after)
	if validateErr == nil {
		return cfg, nil
	}
	if bytes.Equal(before, after) {
		return nil, fmt.Errorf("config %s is invalid: %w", path, validateErr)
	}
	if err := os.WriteFile(path, before, 0o600); err != nil {
		return nil, fmt.Errorf("config %s is invalid (%v) and restoring it failed: %w", path, validateErr, err)
	}
	return nil, fmt.Errorf("config %s is invalid, previous content restored: %w", path, validateErr)
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".shiftlog.yaml"), nil
}

// ensureConfigFileWithTemplate writes template to path unless a file is
// already there. It reports whether the file was created.
func ensureConfigFileWithTemplate(path, template string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(template), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

// resolveEditor returns the first non-blank candidate, falling back to vi.
func resolveEditor(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// buildEditorCommand splits an editor value such as "code --wait" into a
// command and appends the config path.
func buildEditorCommand(editor, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configEditCmd.Flags().StringVar(&configEditBackend, "backend", config.BackendSQLite, "Storage backend of the template written when no config exists: sqlite|sheet")
	configEditCmd.Flags().StringVar(&configEditEditor, "editor", "", "Editor command; overrides $VISUAL and $EDITOR")
	configCmd.AddCommand(configEditCmd)
}
