package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shiftlog/storage"
)

var (
	deleteDBPath string
	deleteID     int64
	deleteAll    bool
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

// allDeleter is implemented by stores that can clear every record at once.
type allDeleter interface {
	DeleteAllRecords() (int64, error)
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one record or all records",
	Long: `Destructive cleanup command.

--id deletes one record. --all deletes every record (sqlite backend only).
Before deletion, an interactive security prompt requires typing exactly "Y".

With the sheet backend a record id is its worksheet row, so deleting a row
shifts the ids of the rows below it.`,
	Example: `
  # Delete record 12
  shiftlog delete --id 12

  # Delete every record in the sqlite database
  shiftlog delete --all --db ./shiftlog.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (deleteID > 0) == deleteAll {
			return fmt.Errorf("pass exactly one of --id or --all")
		}

		cfg, err := loadConfig(deleteDBPath)
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		target := fmt.Sprintf("record %d in %s", deleteID, cfg.Storage.Path)
		if deleteAll {
			target = fmt.Sprintf("all records in %s", cfg.Storage.Path)
		}
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, target)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if deleteAll {
			deleted, err := deleteAllRecords(store)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted records: %d\n", deleted)
			return nil
		}

		if err := store.DeleteRecord(deleteID); err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				return fmt.Errorf("record %d not found", deleteID)
			}
			return err
		}
		fmt.Printf("Deleted record: %d\n", deleteID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "Record id to delete")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every record")
	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Storage path (overrides storage.path)")
}

func deleteAllRecords(store storage.Store) (int64, error) {
	deleter, ok := store.(allDeleter)
	if !ok {
		return 0, fmt.Errorf("the configured storage backend does not support --all")
	}
	return deleter.DeleteAllRecords()
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}
