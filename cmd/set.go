package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shiftlog/attendance"
	"shiftlog/schedule"
	"shiftlog/storage"
)

var (
	setID     int64
	setFields []string
	setTag    string
	setValue  string
	setDBPath string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit fields or memo tags of one stored record",
	Long: `Edit one stored record.

Each --field takes name=value. Field names accept the snake_case form
(actual_in) or the column header (ActualIn). Editing a clock field re-derives
the lateness, overtime and worked minutes that depend on it.

--tag part|rental with --value rewrites that tag inside the memo; an empty
value removes the tag.`,
	Example: `
  # Record an actual check-in and check-out
  shiftlog set --id 12 --field actual_in=10:07 --field actual_out=19:30

  # Set the part tag of the memo
  shiftlog set --id 12 --tag part --value 오픈
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setID <= 0 {
			return fmt.Errorf("--id must be > 0")
		}
		edits, err := parseFieldAssignments(setFields)
		if err != nil {
			return err
		}
		if len(edits) == 0 && strings.TrimSpace(setTag) == "" {
			return fmt.Errorf("nothing to change: pass --field or --tag")
		}

		cfg, err := loadConfig(setDBPath)
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		updated, err := editRecord(store, setID, edits, setTag, setValue)
		if err != nil {
			return err
		}
		return printRecords(os.Stdout, []attendance.Record{updated})
	},
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().Int64Var(&setID, "id", 0, "Record id")
	setCmd.Flags().StringArrayVar(&setFields, "field", nil, "Field assignment name=value (repeatable)")
	setCmd.Flags().StringVar(&setTag, "tag", "", "Memo tag to rewrite: part|rental")
	setCmd.Flags().StringVar(&setValue, "value", "", "Memo tag value (empty removes the tag)")
	setCmd.Flags().StringVar(&setDBPath, "db", "", "Storage path (overrides storage.path)")

	_ = setCmd.MarkFlagRequired("id")
}

func parseFieldAssignments(assignments []string) (attendance.Patch, error) {
	edits := make(attendance.Patch, len(assignments))
	for _, assignment := range assignments {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --field %q (expected name=value)", assignment)
		}
		field, err := attendance.ParseField(name)
		if err != nil {
			return nil, err
		}
		edits[field] = strings.TrimSpace(value)
	}
	return edits, nil
}

// editRecord applies field edits and an optional memo tag change to a stored
// record and persists only the fields that changed.
func editRecord(store storage.Store, id int64, edits attendance.Patch, tag, value string) (attendance.Record, error) {
	current, err := store.GetRecord(id)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("record %d: %w", id, err)
	}

	edited := attendance.ApplyEdits(current, edits)
	if strings.TrimSpace(tag) != "" {
		kind, err := schedule.ParseTagKind(tag)
		if err != nil {
			return attendance.Record{}, err
		}
		edited.Memo = schedule.SetTag(edited.Memo, kind, value)
	}
	if err := attendance.Validate(edited); err != nil {
		return attendance.Record{}, err
	}

	patch := attendance.Diff(current, edited)
	if len(patch) == 0 {
		return current, nil
	}
	return store.UpdateRecordIf(id, current, patch)
}
