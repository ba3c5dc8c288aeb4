package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shiftlog/importer"
	"shiftlog/recompute"
	"shiftlog/schedule"
)

var (
	importInputs        []string
	importFormat        string
	importDate          string
	importSheet         string
	importDBPath        string
	importRecomputeMode string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import schedule text, CSV/TSV or Excel attendance sheets",
	Long: `Read source files and persist the attendance records they contain.

Schedule text (.txt) is parsed like "shiftlog parse" and needs --date.
CSV, TSV and Excel sheets need a header row; canonical headers (Date, Branch,
Name, ScheduledIn, ...), field names and the Korean column names are accepted.
Rows without a name or date are skipped. Derived minute columns left empty are
filled from the clock columns.

When --format is omitted, format is inferred from each input file extension.
All records of one run are stored in a single all-or-nothing batch.`,
	Example: `
  # Import an attendance workbook
  shiftlog import -i ./attendance.xlsx --sheet Attendance_Logs

  # Import a schedule text file for a given day
  shiftlog import -i ./monday.txt --date 2024-03-04

  # Import a CSV export and re-derive every stored record afterwards
  shiftlog import -i ./legacy.csv --recompute on
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(importDBPath)
		if err != nil {
			return err
		}

		shouldRecompute, err := resolveRecomputeMode(importRecomputeMode)
		if err != nil {
			return err
		}

		result, err := importer.Run(importInputs, importFormat, importer.RunOptions{
			Date:   strings.TrimSpace(importDate),
			Sheet:  importSheet,
			Parser: schedule.FromConfig(cfg.Parser),
		})
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ids, err := store.InsertRecords(result.Records)
		if err != nil {
			return err
		}

		logger.Info("import completed",
			zap.Int("files", result.FilesProcessed),
			zap.Int("rows_read", result.RowsRead),
			zap.Int("rows_skipped", result.RowsSkipped),
			zap.Int("persisted", len(ids)),
		)
		fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
			len(ids),
		)

		if shouldRecompute {
			recomputeResult, err := recompute.Run(store)
			if err != nil {
				return err
			}
			fmt.Printf("Recompute completed. Days processed: %d, Records checked: %d, Records updated: %d\n",
				recomputeResult.DaysProcessed,
				recomputeResult.RecordsChecked,
				recomputeResult.RecordsUpdated,
			)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: text|csv|tsv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importDate, "date", "", "Date for schedule text inputs, format YYYY-MM-DD")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Worksheet to read from Excel inputs (default: first sheet)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Storage path (overrides storage.path)")
	importCmd.Flags().StringVar(&importRecomputeMode, "recompute", "off", "Re-derive all stored records after import: on|off")

	_ = importCmd.MarkFlagRequired("input")
}

func resolveRecomputeMode(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "off", "false", "no":
		return false, nil
	case "on", "true", "yes":
		return true, nil
	default:
		return false, fmt.Errorf("invalid recompute mode %q (supported: on|off)", mode)
	}
}
