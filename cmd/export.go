package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shiftlog/internal/timeutil"
	"shiftlog/output"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
	exportPeriod string
	exportDate   string
	exportSort   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attendance records or per-person statistics to CSV/Excel",
	Long: `Export stored attendance records.

Modes:
- raw: export each record with the canonical column headers
- members: export per-person totals (shifts, late shifts, lateness, overtime, worked minutes)
  for the week or month containing --date

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export all records to CSV
  shiftlog export --mode raw --output ./attendance.csv

  # Export March records sorted by lateness to Excel
  shiftlog export --mode raw --period month --date 2024-03-01 --sort late --output ./march.xlsx

  # Export per-person totals for the current week
  shiftlog export --mode members --output ./week.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		sortKey, err := output.ParseSortKey(exportSort)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(exportDBPath)
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.ListRecords()
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			if strings.TrimSpace(exportPeriod) != "" {
				from, to, err := resolveExportRange(exportPeriod, exportDate, time.Now())
				if err != nil {
					return err
				}
				records = output.FilterRecords(records, from, to)
			}
			output.SortRecords(records, sortKey)

			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, records); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(records), format, exportOutput)
		case "members":
			from, to, err := resolveExportRange(exportPeriod, exportDate, time.Now())
			if err != nil {
				return err
			}
			summaries := output.BuildMemberSummaries(records, from, to)
			if err := output.WriteMemberSummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Members: %d, Mode: members, Range: %s..%s, Format: %s, File: %s\n",
				len(summaries), from.Format(timeutil.ISODate), to.Format(timeutil.ISODate), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, members)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

// resolveExportRange returns the period containing date, or containing now
// when date is empty.
func resolveExportRange(period, date string, now time.Time) (time.Time, time.Time, error) {
	parsedPeriod, err := output.ParsePeriod(period)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day := timeutil.StartOfDay(now)
	if strings.TrimSpace(date) != "" {
		day, err = timeutil.ParseISODate(date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
	}
	from, to := output.PeriodRange(parsedPeriod, day)
	return from, to, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|members")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Storage path (overrides storage.path)")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "", "Limit to the week|month containing --date (members mode defaults to week)")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Day inside the exported period, format YYYY-MM-DD (default: today)")
	exportCmd.Flags().StringVar(&exportSort, "sort", "date", "Raw row order: date|late|overtime|work (largest first)")

	_ = exportCmd.MarkFlagRequired("output")
}
