package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shiftlog/attendance"
	"shiftlog/internal/timeutil"
	"shiftlog/schedule"
)

var (
	parseDate   string
	parseInput  string
	parseSave   bool
	parseJSON   bool
	parseDBPath string
)

var parseInputReader io.Reader = os.Stdin

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a pasted shift schedule into attendance records",
	Long: `Parse schedule text from --input or stdin and print the records it contains.

Every record gets the date given by --date (default: today). Nothing is stored
unless --save is set.`,
	Example: `
  # Preview
  shiftlog parse --date 2024-03-04 -i ./monday.txt

  # Store the parsed records
  pbpaste | shiftlog parse --date 2024-03-04 --save
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(parseDBPath)
		if err != nil {
			return err
		}

		date, err := resolveParseDate(parseDate, time.Now())
		if err != nil {
			return err
		}

		text, err := readScheduleText(parseInput, parseInputReader)
		if err != nil {
			return err
		}

		records := schedule.FromConfig(cfg.Parser).Parse(text, date)
		if parseJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(records); err != nil {
				return fmt.Errorf("encode records: %w", err)
			}
		} else if err := printRecords(cmd.OutOrStdout(), records); err != nil {
			return err
		}

		if !parseSave || len(records) == 0 {
			return nil
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

		ids, err := store.InsertRecords(records)
		if err != nil {
			return err
		}
		logger.Info("parsed records stored", zap.String("date", date), zap.Int("count", len(ids)))
		fmt.Printf("Parse completed. Records: %d, Records persisted: %d\n", len(records), len(ids))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseDate, "date", "", "Date of the schedule, format YYYY-MM-DD (default: today)")
	parseCmd.Flags().StringVarP(&parseInput, "input", "i", "", "Schedule text file (default: stdin)")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Persist the parsed records")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print records as JSON")
	parseCmd.Flags().StringVar(&parseDBPath, "db", "", "Storage path (overrides storage.path)")
}

func resolveParseDate(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Format(timeutil.ISODate), nil
	}
	if _, err := timeutil.ParseISODate(value); err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return value, nil
}

func readScheduleText(path string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read schedule file: %w", err)
		}
		return string(content), nil
	}
	if stdin == nil {
		return "", fmt.Errorf("no schedule input available")
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read schedule from stdin: %w", err)
	}
	return string(content), nil
}

func printRecords(out io.Writer, records []attendance.Record) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tBRANCH\tNAME\tIN\tACTUAL IN\tOUT\tACTUAL OUT\tLATE\tOVERTIME\tWORKED\tMEMO")
	for _, rec := range records {
		id := "-"
		if rec.ID > 0 {
			id = fmt.Sprintf("%d", rec.ID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id, rec.Date, rec.Branch, rec.Name,
			rec.ScheduledIn, rec.ActualIn, rec.ScheduledOut, rec.ActualOut,
			rec.LateMinutes, rec.OvertimeMinutes, rec.WorkedMinutes, rec.Memo,
		)
	}
	return w.Flush()
}
